package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/nebulia-tech/librairie/pkg/kafka"
	"github.com/nebulia-tech/librairie/pkg/logger"
	"github.com/nebulia-tech/librairie/pkg/mailer"
	"github.com/nebulia-tech/librairie/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type JWT struct {
	Secret string        `yaml:"secret" envconfig:"JWT_SECRET" json:"-"`
	TTL    time.Duration `yaml:"ttl" envconfig:"JWT_TTL" default:"24h"`
}

type Overdue struct {
	// five-field cron expression, local time; the reference deployment
	// fires at 17:20
	CronSpec    string        `yaml:"cron" envconfig:"OVERDUE_CRON" default:"20 17 * * *"`
	Pace        time.Duration `yaml:"pace" envconfig:"NOTIFY_PACE" default:"1s"`
	SendTimeout time.Duration `yaml:"sendTimeout" envconfig:"NOTIFY_SEND_TIMEOUT" default:"30s"`
}

type Config struct {
	Server   HTTPServer    `yaml:"server"`
	Database postgres.DB   `yaml:"db"`
	SMTP     mailer.Config `yaml:"smtp"`
	Kafka    kafka.Config  `yaml:"kafka"`
	Overdue  Overdue       `yaml:"overdue"`
	JWT      JWT           `yaml:"jwt"`
	Log      logger.Log    `yaml:"log"`
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

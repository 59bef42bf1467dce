package mailer

import (
	"context"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string `yaml:"host" envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `yaml:"port" envconfig:"SMTP_PORT" default:"465"`
	Username string `yaml:"username" envconfig:"SMTP_USER"`
	Password string `yaml:"password" envconfig:"SMTP_PASSWORD" json:"-"`
	From     string `yaml:"from" envconfig:"SMTP_FROM"`
}

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer is the outbound mail channel. One call sends one message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg Config) Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == 465
	return &smtpMailer{dialer: d, from: cfg.From}
}

// Send delivers msg over SMTP. gomail has no context support, so the dial
// and send run in a goroutine and the context deadline bounds the wait.
func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(gm)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

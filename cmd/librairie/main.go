package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/nebulia-tech/librairie/app"
	"github.com/nebulia-tech/librairie/config"
)

func main() {
	_ = godotenv.Load()

	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	if err := app.Run(context.Background(), cfg); err != nil {
		log.Fatal(err)
	}
}

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/config"
	"github.com/nebulia-tech/librairie/internal/events"
	"github.com/nebulia-tech/librairie/internal/handler"
	"github.com/nebulia-tech/librairie/internal/notify"
	"github.com/nebulia-tech/librairie/internal/repository"
	"github.com/nebulia-tech/librairie/internal/scheduler"
	"github.com/nebulia-tech/librairie/internal/server"
	"github.com/nebulia-tech/librairie/internal/service"
	"github.com/nebulia-tech/librairie/migrations"
	"github.com/nebulia-tech/librairie/pkg/clock"
	"github.com/nebulia-tech/librairie/pkg/kafka"
	"github.com/nebulia-tech/librairie/pkg/logger"
	"github.com/nebulia-tech/librairie/pkg/mailer"
	"github.com/nebulia-tech/librairie/pkg/postgres"
)

const shutdownTimeout = 10 * time.Second

func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "librairie")

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return err
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return err
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.Kafka.Addrs) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return err
		}
		defer producer.Close() //nolint:errcheck
		pub = events.NewPublisher(producer, log)
	}

	clk := clock.New()
	svc := service.NewService(repo, clk, pub, log)

	scanner := notify.NewScanner(repo, clk, log)
	dispatcher := notify.NewDispatcher(mailer.New(cfg.SMTP), pub, cfg.Overdue.Pace, cfg.Overdue.SendTimeout, log)
	notifier := notify.NewNotifier(scanner, dispatcher, log)

	sched := scheduler.New(cfg.Overdue.CronSpec, notifier, log)
	if err := sched.Start(); err != nil {
		return err
	}

	h := handler.New(handler.Services{
		Book:    svc,
		Loan:    svc,
		Auth:    svc,
		Overdue: notifier,
	}, cfg.JWT, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("host", cfg.Server.Host), zap.String("port", cfg.Server.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		log.Info("shutdown signal", zap.String("signal", s.String()))
	case <-ctx.Done():
		log.Info("context canceled")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(stopCtx); err != nil {
		log.Error("server stop", zap.Error(err))
	}
	if err := sched.Stop(stopCtx); err != nil {
		log.Error("scheduler stop", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
}

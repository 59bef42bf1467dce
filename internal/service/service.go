package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/events"
	"github.com/nebulia-tech/librairie/internal/repository"
	"github.com/nebulia-tech/librairie/pkg/clock"
)

type Service struct {
	log    *zap.Logger
	repo   repository.Repository
	clock  clock.Clock
	events events.Publisher
}

func NewService(repo repository.Repository, clk clock.Clock, pub events.Publisher, log *zap.Logger) *Service {
	return &Service{
		log:    log,
		repo:   repo,
		clock:  clk,
		events: pub,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

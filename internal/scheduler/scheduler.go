package scheduler

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/model"
)

// Runner is the scan+dispatch pipeline the scheduler fires.
type Runner interface {
	Run(ctx context.Context) model.OverdueNotificationResult
}

// Scheduler fires the overdue pipeline on a fixed daily schedule. A firing
// that is still running when the next one comes due is skipped rather than
// stacked.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	log    *zap.Logger
	spec   string
}

func New(spec string, runner Runner, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		runner: runner,
		log:    log.Named("scheduler"),
		spec:   spec,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return errors.Wrap(err, "add cron")
	}
	s.cron.Start()
	s.log.Info("overdue scheduler started", zap.String("spec", s.spec))
	return nil
}

// runOnce never panics and never returns an error: a failed run is a failed
// result, the schedule keeps firing.
func (s *Scheduler) runOnce() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("overdue run panic", zap.Any("panic", r))
		}
	}()

	s.log.Info("scheduled overdue check started")
	res := s.runner.Run(context.Background())
	if res.Success {
		s.log.Info("scheduled overdue check finished", zap.String("message", res.Message))
	} else {
		s.log.Error("scheduled overdue check failed",
			zap.String("message", res.Message), zap.String("error", res.Error))
	}
}

// Stop waits for a running job to finish, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

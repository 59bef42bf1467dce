package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/events"
	"github.com/nebulia-tech/librairie/internal/model"
	"github.com/nebulia-tech/librairie/pkg/mailer"
)

// Dispatcher sends one reminder per candidate, sequentially, in scan order.
// Individual failures are counted and logged, the batch always completes.
// There is no dedup memory: a loan still overdue tomorrow is notified again.
type Dispatcher struct {
	mailer      mailer.Mailer
	events      events.Publisher
	log         *zap.Logger
	pace        time.Duration
	sendTimeout time.Duration
	sleep       func(time.Duration)
}

func NewDispatcher(m mailer.Mailer, pub events.Publisher, pace, sendTimeout time.Duration, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:      m,
		events:      pub,
		log:         log.Named("dispatcher"),
		pace:        pace,
		sendTimeout: sendTimeout,
		sleep:       time.Sleep,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, candidates []model.OverdueCandidate) model.OverdueNotificationResult {
	if len(candidates) == 0 {
		return model.OverdueNotificationResult{
			Success: true,
			Message: "Aucun emprunt en retard",
		}
	}

	var successCount, errorCount int
	for i, c := range candidates {
		if err := d.send(ctx, c); err != nil {
			errorCount++
			d.log.Error("send reminder",
				zap.String("email", c.UserEmail), zap.Int("loanID", c.LoanID), zap.Error(err))
		} else {
			successCount++
			d.log.Info("reminder sent",
				zap.String("email", c.UserEmail), zap.String("title", c.BookTitle), zap.Int("daysLate", c.DaysLate))
			d.events.ReminderSent(c)
		}
		// pacing between sends, to respect the provider's rate limits
		if i < len(candidates)-1 {
			d.sleep(d.pace)
		}
	}

	return model.OverdueNotificationResult{
		Success:      true,
		Count:        len(candidates),
		SuccessCount: successCount,
		ErrorCount:   errorCount,
		Message:      fmt.Sprintf("%d notifications envoyées sur %d emprunts en retard", successCount, len(candidates)),
	}
}

func (d *Dispatcher) send(ctx context.Context, c model.OverdueCandidate) error {
	subject, html, err := renderReminder(c)
	if err != nil {
		return err
	}
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	return d.mailer.Send(sendCtx, mailer.Message{
		To:      c.UserEmail,
		Subject: subject,
		HTML:    html,
	})
}

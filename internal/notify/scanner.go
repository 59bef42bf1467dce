package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/model"
	"github.com/nebulia-tech/librairie/pkg/clock"
)

// OverdueSource is the slice of the repository the scanner reads.
type OverdueSource interface {
	FindOverdueOpenLoans(ctx context.Context, today time.Time) ([]model.OverdueLoanRow, error)
}

// Scanner finds loans overdue as of "now". Read-only and idempotent.
type Scanner struct {
	repo  OverdueSource
	clock clock.Clock
	log   *zap.Logger
}

func NewScanner(repo OverdueSource, clk clock.Clock, log *zap.Logger) *Scanner {
	return &Scanner{
		repo:  repo,
		clock: clk,
		log:   log.Named("scanner"),
	}
}

func (s *Scanner) Scan(ctx context.Context) ([]model.OverdueCandidate, error) {
	today := dateOnly(s.clock.Now())
	rows, err := s.repo.FindOverdueOpenLoans(ctx, today)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.OverdueCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, model.OverdueCandidate{
			LoanID:    row.LoanID,
			UserName:  row.FirstName + " " + row.LastName,
			UserEmail: row.Email,
			BookTitle: row.BookTitle,
			Author:    row.Author,
			DueAt:     row.DueAt,
			DaysLate:  daysBetween(row.DueAt, today),
		})
	}
	s.log.Debug("scan", zap.Time("today", today), zap.Int("candidates", len(candidates)))
	return candidates, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween is the whole-day difference between two calendar dates,
// independent of time zone and time of day.
func daysBetween(due, today time.Time) int {
	dy, dm, dd := due.Date()
	ty, tm, td := today.Date()
	from := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	to := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

package notify

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/model"
	"github.com/nebulia-tech/librairie/pkg/clock"
)

type fakeOverdueSource struct {
	rows []model.OverdueLoanRow
	err  error

	gotToday time.Time
	calls    int
}

func (f *fakeOverdueSource) FindOverdueOpenLoans(_ context.Context, today time.Time) ([]model.OverdueLoanRow, error) {
	f.calls++
	f.gotToday = today
	return f.rows, f.err
}

func TestScannerScan(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 17, 20, 0, 0, time.UTC)
	src := &fakeOverdueSource{
		rows: []model.OverdueLoanRow{
			{
				LoanID:    1,
				BookTitle: "Le Petit Prince",
				Author:    "Antoine de Saint-Exupéry",
				FirstName: "Marie",
				LastName:  "Dupont",
				Email:     "marie@example.com",
				DueAt:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			},
			{
				LoanID:    2,
				BookTitle: "L'Étranger",
				Author:    "Albert Camus",
				FirstName: "Paul",
				LastName:  "Martin",
				Email:     "paul@example.com",
				DueAt:     time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			},
		},
	}
	s := NewScanner(src, clock.Static(now), zap.NewNop())

	got, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, "Marie Dupont", got[0].UserName)
	require.Equal(t, "marie@example.com", got[0].UserEmail)
	require.Equal(t, 5, got[0].DaysLate)
	require.Equal(t, 1, got[1].DaysLate)

	// the query sees the date, never the time of day
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), src.gotToday)
}

func TestScannerMidnightBoundary(t *testing.T) {
	t.Parallel()

	// at 00:00 the day after the due date the loan is exactly one day late
	now := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	src := &fakeOverdueSource{
		rows: []model.OverdueLoanRow{
			{LoanID: 1, DueAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		},
	}
	s := NewScanner(src, clock.Static(now), zap.NewNop())

	got, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 1, got[0].DaysLate)
}

func TestScannerIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	src := &fakeOverdueSource{
		rows: []model.OverdueLoanRow{
			{LoanID: 1, DueAt: time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)},
		},
	}
	s := NewScanner(src, clock.Static(now), zap.NewNop())

	first, err := s.Scan(context.Background())
	require.NoError(t, err)
	second, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 2, src.calls)
}

func TestScannerError(t *testing.T) {
	t.Parallel()

	src := &fakeOverdueSource{err: errors.New("db down")}
	s := NewScanner(src, clock.Static(time.Now()), zap.NewNop())

	_, err := s.Scan(context.Background())
	require.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	tests := []struct {
		name  string
		due   time.Time
		today time.Time
		want  int
	}{
		{
			name:  "five days",
			due:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			today: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			want:  5,
		},
		{
			name:  "same day",
			due:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			today: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			want:  0,
		},
		{
			name:  "mixed zones compare as calendar dates",
			due:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			today: time.Date(2024, 3, 12, 0, 0, 0, 0, paris),
			want:  2,
		},
		{
			name:  "across dst change",
			due:   time.Date(2024, 3, 29, 0, 0, 0, 0, paris),
			today: time.Date(2024, 4, 2, 0, 0, 0, 0, paris),
			want:  4,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, daysBetween(tt.due, tt.today))
		})
	}
}

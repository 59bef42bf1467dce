package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/events"
	"github.com/nebulia-tech/librairie/internal/model"
	"github.com/nebulia-tech/librairie/pkg/clock"
)

func newTestNotifier(src OverdueSource, m *fakeMailer) *Notifier {
	log := zap.NewNop()
	scanner := NewScanner(src, clock.Static(time.Date(2024, 3, 15, 17, 20, 0, 0, time.UTC)), log)
	dispatcher := NewDispatcher(m, events.Nop{}, 0, time.Second, log)
	dispatcher.sleep = func(time.Duration) {}
	return NewNotifier(scanner, dispatcher, log)
}

func TestNotifierScanFailure(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(&fakeOverdueSource{err: errors.New("db down")}, &fakeMailer{})

	res := n.Run(context.Background())
	require.False(t, res.Success)
	require.Equal(t, "Erreur lors du traitement des emprunts en retard", res.Message)
	require.Contains(t, res.Error, "db down")
}

func TestNotifierManualCheckMatchesRun(t *testing.T) {
	t.Parallel()

	src := &fakeOverdueSource{
		rows: []model.OverdueLoanRow{
			{LoanID: 1, Email: "a@example.com", DueAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		},
	}
	n := newTestNotifier(src, &fakeMailer{})

	scheduled := n.Run(context.Background())
	manual := n.RunManualCheck(context.Background())
	require.Equal(t, scheduled, manual)
	require.True(t, manual.Success)
	require.Equal(t, 1, manual.Count)
	require.Equal(t, 1, manual.SuccessCount)
}

type blockingSource struct {
	release chan struct{}
	active  int32
	overlap int32
}

func (b *blockingSource) FindOverdueOpenLoans(context.Context, time.Time) ([]model.OverdueLoanRow, error) {
	if atomic.AddInt32(&b.active, 1) > 1 {
		atomic.StoreInt32(&b.overlap, 1)
	}
	<-b.release
	atomic.AddInt32(&b.active, -1)
	return nil, nil
}

func TestNotifierSerializesConcurrentRuns(t *testing.T) {
	t.Parallel()

	src := &blockingSource{release: make(chan struct{}, 2)}
	src.release <- struct{}{}
	src.release <- struct{}{}
	n := newTestNotifier(src, &fakeMailer{})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := n.Run(context.Background())
			require.True(t, res.Success)
		}()
	}
	wg.Wait()

	require.Zero(t, atomic.LoadInt32(&src.overlap), "runs must not overlap")
}

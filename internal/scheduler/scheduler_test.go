package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/model"
)

type fakeRunner struct {
	calls int32
	res   model.OverdueNotificationResult
	panic bool
}

func (f *fakeRunner) Run(context.Context) model.OverdueNotificationResult {
	atomic.AddInt32(&f.calls, 1)
	if f.panic {
		panic("boom")
	}
	return f.res
}

func (f *fakeRunner) count() int {
	return int(atomic.LoadInt32(&f.calls))
}

func TestSchedulerInvalidSpec(t *testing.T) {
	t.Parallel()

	s := New("not a cron spec", &fakeRunner{}, zap.NewNop())
	require.Error(t, s.Start())
}

func TestSchedulerRunOnce(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{res: model.OverdueNotificationResult{Success: true, Message: "Aucun emprunt en retard"}}
	s := New("20 17 * * *", r, zap.NewNop())

	s.runOnce()
	require.Equal(t, 1, r.count())
}

func TestSchedulerRunOnceFailedResult(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{res: model.OverdueNotificationResult{
		Success: false,
		Message: "Erreur lors du traitement des emprunts en retard",
		Error:   "db down",
	}}
	s := New("20 17 * * *", r, zap.NewNop())

	// a failed run is logged, never fatal
	s.runOnce()
	require.Equal(t, 1, r.count())
}

func TestSchedulerRecoversPanic(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{panic: true}
	s := New("20 17 * * *", r, zap.NewNop())

	require.NotPanics(t, s.runOnce)
	require.Equal(t, 1, r.count())
}

func TestSchedulerStartStop(t *testing.T) {
	t.Parallel()

	s := New("20 17 * * *", &fakeRunner{}, zap.NewNop())
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestSchedulerFires(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{res: model.OverdueNotificationResult{Success: true}}
	s := New("@every 100ms", r, zap.NewNop())
	require.NoError(t, s.Start())

	require.Eventually(t, func() bool { return r.count() > 0 }, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/model"
)

// Notifier chains scan and dispatch into one run. Runs are serialized: a
// manual check arriving while the scheduled run executes waits its turn
// instead of racing it.
type Notifier struct {
	mu         sync.Mutex
	scanner    *Scanner
	dispatcher *Dispatcher
	log        *zap.Logger
}

func NewNotifier(scanner *Scanner, dispatcher *Dispatcher, log *zap.Logger) *Notifier {
	return &Notifier{
		scanner:    scanner,
		dispatcher: dispatcher,
		log:        log.Named("notifier"),
	}
}

// Run executes one scan+dispatch pass. A scan failure is converted into a
// failed result, never propagated: the caller's loop must not die.
func (n *Notifier) Run(ctx context.Context) model.OverdueNotificationResult {
	n.mu.Lock()
	defer n.mu.Unlock()

	candidates, err := n.scanner.Scan(ctx)
	if err != nil {
		n.log.Error("overdue scan", zap.Error(err))
		return model.OverdueNotificationResult{
			Success: false,
			Message: "Erreur lors du traitement des emprunts en retard",
			Error:   err.Error(),
		}
	}

	res := n.dispatcher.Dispatch(ctx, candidates)
	n.log.Info("overdue run finished",
		zap.Int("count", res.Count),
		zap.Int("sent", res.SuccessCount),
		zap.Int("errors", res.ErrorCount))
	return res
}

// RunManualCheck is the operator-invoked entry point; same pipeline, same
// guard, same result shape as the scheduled run.
func (n *Notifier) RunManualCheck(ctx context.Context) model.OverdueNotificationResult {
	return n.Run(ctx)
}

func (n *Notifier) Scan(ctx context.Context) ([]model.OverdueCandidate, error) {
	return n.scanner.Scan(ctx)
}

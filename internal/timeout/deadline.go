package timeout

import (
	"context"
	"sync"
	"time"

	"github.com/zgsm-ai/tool-reply/internal/logger"
	"go.uber.org/zap"
)

// Budget tracks the total generation wall-clock budget across the retries
// a caller may issue for the same request. The pipeline itself never
// retries; this exists for the layer that does.
type Budget struct {
	mu            sync.Mutex
	initialBudget time.Duration
	remaining     time.Duration
	lastResetTime time.Time
}

// NewBudget creates a Budget with the specified total allowance
func NewBudget(total time.Duration) *Budget {
	return &Budget{
		initialBudget: total,
		remaining:     total,
		lastResetTime: time.Now(),
	}
}

// Remaining returns the remaining budget
func (b *Budget) Remaining() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// Consume reduces the remaining budget by the specified duration
func (b *Budget) Consume(duration time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remaining -= duration
	if b.remaining < 0 {
		b.remaining = 0
	}
}

// Reset restores the budget to its initial value
func (b *Budget) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remaining = b.initialBudget
	b.lastResetTime = time.Now()
}

// Bound derives a context for one generation attempt, limited to the
// smaller of perCall and the remaining budget. The returned cancel func
// must be called when the attempt finishes; the elapsed time is consumed
// from the budget at that point.
func Bound(parent context.Context, perCall time.Duration, budget *Budget) (context.Context, context.CancelFunc) {
	limit := perCall
	if budget != nil {
		if remaining := budget.Remaining(); remaining < limit {
			limit = remaining
		}
	}

	if limit <= 0 {
		// Budget exhausted; hand back an already-cancelled context so the
		// attempt fails fast instead of running unbounded
		ctx, cancel := context.WithCancel(parent)
		cancel()
		logger.Warn("generation budget exhausted",
			zap.Duration("perCall", perCall),
		)
		return ctx, cancel
	}

	ctx, cancel := context.WithTimeout(parent, limit)
	start := time.Now()

	wrapped := func() {
		if budget != nil {
			budget.Consume(time.Since(start))
		}
		cancel()
	}
	return ctx, wrapped
}

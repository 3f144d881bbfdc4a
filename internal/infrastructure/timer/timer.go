package timer

import (
	"context"
	"time"

	"github.com/productscraper/backend/internal/domain"
)

// Delayer waits on a real timer that is released as soon as the context ends
type Delayer struct{}

var _ domain.Delayer = Delayer{}

// NewDelayer creates a wall-clock delayer
func NewDelayer() Delayer {
	return Delayer{}
}

// Wait blocks for d or until ctx is done, whichever comes first
func (Delayer) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay returns immediately; it only reports an already finished context.
type NoDelay struct{}

var _ domain.Delayer = NoDelay{}

func (NoDelay) Wait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

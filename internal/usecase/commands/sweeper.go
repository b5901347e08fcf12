package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// IdempotencySweeper periodically deletes idempotency keys past their
// expiry. TryInsert already takes over expired rows, so the sweep only
// bounds table growth.
type IdempotencySweeper struct {
	keys     ExpiredKeyDeleter
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewIdempotencySweeper(keys ExpiredKeyDeleter, interval time.Duration) *IdempotencySweeper {
	return &IdempotencySweeper{keys: keys, interval: interval}
}

func (s *IdempotencySweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.keys.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("expired idempotency keys deleted", "count", n)
	}
	return n, nil
}

// Start launches the sweep loop. A non-positive interval leaves it disabled.
func (s *IdempotencySweeper) Start() {
	if s.interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
					slog.Warn("idempotency key sweep failed", "error", err.Error())
				}
			}
		}
	}()
}

func (s *IdempotencySweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

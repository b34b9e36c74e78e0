package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"BistSentinel/internal/model"
)

const (
	DefaultAttempts = 2
	DefaultBackoff  = 250 * time.Millisecond
)

// RetryFetcher retries the wrapped fetcher with a fixed backoff.
// An empty bar list counts as a failure.
type RetryFetcher struct {
	Inner    Fetcher
	Attempts int
	Backoff  time.Duration
}

// WithRetry wraps f with the given attempt count and backoff.
func WithRetry(f Fetcher, attempts int, backoff time.Duration) *RetryFetcher {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryFetcher{Inner: f, Attempts: attempts, Backoff: backoff}
}

func (r *RetryFetcher) Name() string { return r.Inner.Name() }

func (r *RetryFetcher) FetchBars(ctx context.Context, symbol, period, interval string) ([]model.OHLCV, error) {
	var lastErr error
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		bars, err := r.Inner.FetchBars(ctx, symbol, period, interval)
		if err == nil && len(bars) > 0 {
			return bars, nil
		}
		if err == nil {
			err = fmt.Errorf("empty result: %w", model.ErrDataUnavailable)
		}
		lastErr = err
		if attempt < r.Attempts {
			log.Printf("[WARN] %s fetch %s attempt %d/%d failed: %v", r.Inner.Name(), symbol, attempt, r.Attempts, err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.Backoff):
			}
		}
	}
	return nil, fmt.Errorf("fetch %s after %d attempts: %w", symbol, r.Attempts, lastErr)
}

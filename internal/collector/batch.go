package collector

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"BistSentinel/internal/model"
)

// BatchResult holds the per-symbol outcome of FetchAll.
type BatchResult struct {
	Bars   map[string][]model.OHLCV
	Failed map[string]error
}

// FetchAll fetches every symbol with at most `workers` requests in flight.
// A failing symbol never aborts the batch; it is reported in Failed.
func FetchAll(ctx context.Context, f Fetcher, symbols []string, period, interval string, workers int) BatchResult {
	if workers < 1 {
		workers = 1
	}
	res := BatchResult{
		Bars:   make(map[string][]model.OHLCV, len(symbols)),
		Failed: make(map[string]error),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, sym := range symbols {
		sym := sym
		g.Go(func() error {
			bars, err := f.FetchBars(gctx, sym, period, interval)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed[sym] = err
				return nil
			}
			res.Bars[sym] = bars
			return nil
		})
	}
	_ = g.Wait()
	return res
}

package collector

import (
	"context"

	"BistSentinel/internal/model"
)

// Fetcher retrieves OHLCV history for one data-source symbol.
// period and interval use Yahoo-style notation ("6mo", "1d", "60m").
type Fetcher interface {
	FetchBars(ctx context.Context, symbol, period, interval string) ([]model.OHLCV, error)
	Name() string
}

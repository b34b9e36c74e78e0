package collector

import (
	"context"
	"math"
	"sync"
	"time"

	"BistSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	mu    sync.Mutex
	Price float64
	Count int
	Data  map[string][]model.OHLCV
	Errs  map[string]error
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol, _, _ string) ([]model.OHLCV, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Data[symbol]; ok {
		return bars, nil
	}
	count := m.Count
	if count == 0 {
		count = 250
	}
	price := m.Price
	if price == 0 {
		price = 100
	}
	return generateMockBars(symbol, price, count), nil
}

// Calls returns how often symbol was requested.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

// generateMockBars builds a deterministic wavy series; the phase depends on the symbol.
func generateMockBars(symbol string, basePrice float64, count int) []model.OHLCV {
	phase := 0.0
	for _, r := range symbol {
		phase += float64(r)
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.08*math.Sin(float64(i)/12+phase) + float64(i-count/2)*0.0005)
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.998,
			High:   p * 1.01,
			Low:    p * 0.99,
			Close:  p,
			Volume: 1e6 * (1 + 0.3*math.Cos(float64(i)/5+phase)),
		}
	}
	return bars
}

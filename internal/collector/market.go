package collector

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"BistSentinel/internal/calculator"
	"BistSentinel/internal/model"
)

// GramsPerTroyOunce converts ounce quotes to gram prices.
const GramsPerTroyOunce = 31.1035

const (
	symbolBIST100 = "XU100.IS"
	symbolUSDTRY  = "TRY=X"
	symbolEURTRY  = "EURTRY=X"
	symbolGold    = "GC=F"
	symbolSilver  = "SI=F"
)

// MarketService builds the sidebar market summary behind a TTL cache.
type MarketService struct {
	fetcher Fetcher
	cache   *TTLCache[model.MarketSummary]
}

// NewMarketService creates a market summary service.
func NewMarketService(f Fetcher, ttl time.Duration) *MarketService {
	return &MarketService{fetcher: f, cache: NewTTLCache[model.MarketSummary](ttl)}
}

// Summary returns the cached summary, refreshing it when older than the TTL.
func (m *MarketService) Summary(ctx context.Context) (model.MarketSummary, error) {
	s, stale, err := m.cache.Get(ctx, m.load)
	if err != nil {
		return model.MarketSummary{}, err
	}
	if stale {
		log.Printf("[WARN] market summary refresh failed, serving data from %s", s.FetchedAt.Format(time.RFC3339))
		s.Stale = true
	}
	return s, nil
}

type lastTwo struct {
	prev, last float64
}

func (l lastTwo) valid() bool {
	return l.prev > 0 && l.last > 0 && !math.IsNaN(l.prev) && !math.IsNaN(l.last)
}

func (m *MarketService) load(ctx context.Context) (model.MarketSummary, error) {
	symbols := []string{symbolBIST100, symbolUSDTRY, symbolEURTRY, symbolGold, symbolSilver}
	batch := FetchAll(ctx, m.fetcher, symbols, "2d", "1d", len(symbols))

	closes := make(map[string]lastTwo)
	for sym, bars := range batch.Bars {
		if len(bars) < 2 {
			continue
		}
		closes[sym] = lastTwo{prev: bars[len(bars)-2].Close, last: bars[len(bars)-1].Close}
	}
	for sym, err := range batch.Failed {
		log.Printf("[WARN] market summary %s: %v", sym, err)
	}

	quotes := buildQuotes(closes)
	if len(quotes) == 0 {
		return model.MarketSummary{}, fmt.Errorf("market summary: %w", model.ErrDataUnavailable)
	}
	return model.MarketSummary{Quotes: quotes, FetchedAt: time.Now()}, nil
}

// buildQuotes turns (previous, last) closes into readouts. Gram metals are derived
// from the ounce price and USD/TRY; readouts missing inputs are omitted.
func buildQuotes(closes map[string]lastTwo) []model.MarketQuote {
	var quotes []model.MarketQuote
	add := func(label string, l lastTwo) {
		if !l.valid() {
			return
		}
		quotes = append(quotes, model.MarketQuote{
			Label:         label,
			Value:         l.last,
			ChangePercent: calculator.PercentChange(l.prev, l.last),
		})
	}

	add("BIST 100", closes[symbolBIST100])
	usd := closes[symbolUSDTRY]
	add("USD/TRY", usd)
	add("EUR/TRY", closes[symbolEURTRY])

	if usd.valid() {
		for _, metal := range []struct {
			label, symbol string
		}{{"Gram Gold", symbolGold}, {"Gram Silver", symbolSilver}} {
			oz := closes[metal.symbol]
			add(metal.label, lastTwo{
				prev: oz.prev * usd.prev / GramsPerTroyOunce,
				last: oz.last * usd.last / GramsPerTroyOunce,
			})
		}
	}
	return quotes
}

// ChartWindow maps a chart range to the (period, interval) pair to fetch.
func ChartWindow(rng string) (period, interval string, ok bool) {
	switch rng {
	case "1w":
		return "5d", "60m", true
	case "1mo", "3mo", "6mo", "1y":
		return rng, "1d", true
	}
	return "", "", false
}

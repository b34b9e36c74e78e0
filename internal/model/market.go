package model

import (
	"strings"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Timeframe selects the history period and bar interval of a scan.
type Timeframe string

const (
	TimeframeShort   Timeframe = "short"
	TimeframeMedium  Timeframe = "medium"
	TimeframeClassic Timeframe = "classic"
)

// Window returns the Yahoo-style (period, interval) pair for the timeframe.
func (t Timeframe) Window() (period, interval string) {
	switch t {
	case TimeframeShort:
		return "1mo", "60m"
	case TimeframeMedium:
		return "6mo", "1d"
	default:
		return "1y", "1d"
	}
}

// Valid reports whether t is one of the known timeframes.
func (t Timeframe) Valid() bool {
	switch t {
	case TimeframeShort, TimeframeMedium, TimeframeClassic:
		return true
	}
	return false
}

// ExchangeSuffix is appended to BIST tickers for the data source.
const ExchangeSuffix = ".IS"

// NormalizeTicker upper-cases a ticker and strips the exchange suffix.
func NormalizeTicker(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	return strings.TrimSuffix(t, ExchangeSuffix)
}

// ExchangeSymbol returns the data-source symbol for a bare ticker.
func ExchangeSymbol(t string) string {
	return NormalizeTicker(t) + ExchangeSuffix
}

// MarketQuote is one sidebar readout (index, currency pair or gram metal).
type MarketQuote struct {
	Label         string  `json:"label"`
	Value         float64 `json:"value"`
	ChangePercent float64 `json:"change_percent"`
}

// MarketSummary is the cached set of sidebar readouts.
type MarketSummary struct {
	Quotes    []MarketQuote `json:"quotes"`
	FetchedAt time.Time     `json:"fetched_at"`
	Stale     bool          `json:"stale"`
}

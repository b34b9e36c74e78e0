package scanner

import (
	"context"
	"fmt"
	"math"
	"time"

	"BistSentinel/internal/calculator"
	"BistSentinel/internal/collector"
	"BistSentinel/internal/model"
)

// Candle is one chart bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// RiskReadout is the risk/reward panel shown under a chart.
type RiskReadout struct {
	Price          float64  `json:"price"`
	StopLoss       *float64 `json:"stop_loss,omitempty"`
	Target1        *float64 `json:"target_1,omitempty"`
	Target2        *float64 `json:"target_2,omitempty"`
	Risk           float64  `json:"risk"`
	LossPercent    float64  `json:"loss_percent"`
	Profit1Percent float64  `json:"profit_1_percent"`
	Profit2Percent float64  `json:"profit_2_percent"`
}

// Chart is the overlay data for one ticker. Warm-up points are null.
type Chart struct {
	Ticker    string             `json:"ticker"`
	Range     string             `json:"range"`
	Candles   []Candle           `json:"candles"`
	SMA20     []*float64         `json:"sma20"`
	SMA50     []*float64         `json:"sma50"`
	BBUpper   []*float64         `json:"bb_upper"`
	BBLower   []*float64         `json:"bb_lower"`
	RSI       []*float64         `json:"rsi"`
	RSIGuides [2]float64         `json:"rsi_guides"`
	High      float64            `json:"high"`
	Low       float64            `json:"low"`
	Position  float64            `json:"range_position"`
	Result    *model.ScoreResult `json:"result,omitempty"`
	Risk      *RiskReadout       `json:"risk,omitempty"`
}

func nullable(col []float64) []*float64 {
	out := make([]*float64, len(col))
	for i := range col {
		if v, ok := model.Value(col, i); ok {
			out[i] = &v
		}
	}
	return out
}

// Chart fetches one ticker over the named range and builds its overlay data.
func (s *Scanner) Chart(ctx context.Context, ticker, rng string) (*Chart, error) {
	period, interval, ok := collector.ChartWindow(rng)
	if !ok {
		return nil, fmt.Errorf("unknown chart range %q: %w", rng, model.ErrInvalidConfig)
	}
	ticker = model.NormalizeTicker(ticker)
	bars, err := s.fetcher.FetchBars(ctx, model.ExchangeSymbol(ticker), period, interval)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, model.ErrDataUnavailable)
	}

	f := calculator.BuildFrame(bars, s.opts.Params)
	th := s.engine.Thresholds()
	c := &Chart{
		Ticker:    ticker,
		Range:     rng,
		Candles:   make([]Candle, len(bars)),
		SMA20:     nullable(f.SMA20),
		SMA50:     nullable(f.SMA50),
		BBUpper:   nullable(f.BBUpper),
		BBLower:   nullable(f.BBLower),
		RSI:       nullable(f.RSI),
		RSIGuides: [2]float64{th.RSILower, th.RSIUpper},
	}
	for i, b := range bars {
		c.Candles[i] = Candle{Time: b.Time, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
	}
	c.High, c.Low, _ = calculator.RangeHighLow(bars, 0)
	if pos, err := calculator.RangePosition(bars[len(bars)-1].Close, c.High, c.Low); err == nil {
		c.Position = pos
	}

	if res, err := s.engine.Evaluate(ticker, f); err == nil {
		c.Result = res
		r := Readout(res)
		c.Risk = &r
	}
	return c, nil
}

// Readout derives loss and profit percentages from a result's risk levels.
func Readout(res *model.ScoreResult) RiskReadout {
	r := RiskReadout{
		Price:    res.Price,
		StopLoss: res.Risk.StopLoss,
		Target1:  res.Risk.Target1,
		Target2:  res.Risk.Target2,
		Risk:     res.Risk.Risk,
	}
	pct := func(level *float64) float64 {
		if level == nil {
			return 0
		}
		return math.Abs(calculator.PercentChange(res.Price, *level))
	}
	r.LossPercent = pct(res.Risk.StopLoss)
	r.Profit1Percent = pct(res.Risk.Target1)
	r.Profit2Percent = pct(res.Risk.Target2)
	return r
}

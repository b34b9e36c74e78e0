package calculator

import (
	"math"

	"BistSentinel/internal/model"
)

// BullishEngulfing flags bars where a bullish body fully engulfs the prior bearish body.
func BullishEngulfing(bars []model.OHLCV) []bool {
	out := make([]bool, len(bars))
	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1], bars[i]
		if prev.Close >= prev.Open || cur.Close <= cur.Open {
			continue
		}
		out[i] = cur.Open <= prev.Close && cur.Close >= prev.Open
	}
	return out
}

// Hammer flags small-bodied bars with a long lower shadow and little upper shadow.
func Hammer(bars []model.OHLCV) []bool {
	out := make([]bool, len(bars))
	for i, b := range bars {
		rng := b.High - b.Low
		if rng <= 0 {
			continue
		}
		body := math.Abs(b.Close - b.Open)
		lower := math.Min(b.Open, b.Close) - b.Low
		upper := b.High - math.Max(b.Open, b.Close)
		out[i] = body <= 0.35*rng &&
			lower >= 2*body &&
			lower >= 0.6*rng &&
			upper <= 0.1*rng
	}
	return out
}

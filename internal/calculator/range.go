package calculator

import (
	"errors"
	"math"

	"BistSentinel/internal/model"
)

// RangeHighLow scans the most recent `lookback` bars and returns the high and low.
// A non-positive lookback scans every bar.
func RangeHighLow(bars []model.OHLCV, lookback int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	n := len(bars)
	start := 0
	if lookback > 0 && n > lookback {
		start = n - lookback
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// RangePosition returns where the price sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// PercentChange returns (last-prev)/prev × 100, or 0 when prev is zero.
func PercentChange(prev, last float64) float64 {
	if prev == 0 {
		return 0
	}
	return (last - prev) / prev * 100
}

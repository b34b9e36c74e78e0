package calculator

import (
	"errors"
	"math"

	"BistSentinel/internal/model"
)

func trueRanges(bars []model.OHLCV) []float64 {
	trs := make([]float64, len(bars))
	if len(bars) == 0 {
		return trs
	}
	trs[0] = bars[0].High - bars[0].Low
	for i := 1; i < len(bars); i++ {
		prevClose := bars[i-1].Close
		trs[i] = math.Max(bars[i].High-bars[i].Low,
			math.Max(math.Abs(bars[i].High-prevClose), math.Abs(bars[i].Low-prevClose)))
	}
	return trs
}

// CalculateATR computes the Wilder-smoothed average true range.
// The first value is the plain mean of the first `period` true ranges.
func CalculateATR(bars []model.OHLCV, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return nil, errors.New("not enough data for ATR calculation")
	}
	return wilder(trueRanges(bars), 0, period), nil
}

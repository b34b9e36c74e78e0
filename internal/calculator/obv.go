package calculator

import (
	"errors"

	"BistSentinel/internal/model"
)

// CalculateOBV returns cumulative on-balance volume; the first bar counts as an up bar.
func CalculateOBV(bars []model.OHLCV) ([]float64, error) {
	if len(bars) == 0 {
		return nil, errors.New("no bars provided")
	}
	out := make([]float64, len(bars))
	out[0] = bars[0].Volume
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out, nil
}

package calculator

import (
	"errors"
	"math"

	"BistSentinel/internal/model"
)

// CalculateRSI returns the RSI series with Wilder smoothing. Index 0 carries
// no change, so the first value lands on index `period`.
func CalculateRSI(bars []model.OHLCV, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return nil, errors.New("not enough data for RSI calculation")
	}

	gains := make([]float64, len(bars))
	losses := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		gains[i] = math.Max(change, 0)
		losses[i] = math.Max(-change, 0)
	}

	avgGain := wilder(gains, 1, period)
	avgLoss := wilder(losses, 1, period)
	out := nanSeries(len(bars))
	for i := period; i < len(bars); i++ {
		out[i] = rsiValue(avgGain[i], avgLoss[i])
	}
	return out, nil
}

// rsiValue is 50 on a flat window and 100 when nothing was lost.
func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50
	case avgLoss == 0:
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

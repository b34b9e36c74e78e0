package calculator

import (
	"errors"
	"math"

	"BistSentinel/internal/model"
)

// SMA computes the simple moving average series over the given period.
// Positions before the first full window, and windows touching NaN, are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(values) < period {
		return nil, errors.New("not enough data for SMA calculation")
	}
	out := nanSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(period)
	}
	return out, nil
}

// EMA computes the exponential moving average series, seeded with the SMA of the
// first `period` valid values. Leading NaNs in the input are skipped.
func EMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	start := firstValid(values)
	if start < 0 || len(values)-start < period {
		return nil, errors.New("not enough data for EMA calculation")
	}
	out := nanSeries(len(values))
	sum := 0.0
	for i := start; i < start+period; i++ {
		sum += values[i]
	}
	out[start+period-1] = sum / float64(period)

	k := 2.0 / (float64(period) + 1.0)
	for i := start + period; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out, nil
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func extractVolumes(bars []model.OHLCV) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}

func nanSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

func firstValid(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

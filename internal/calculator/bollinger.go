package calculator

import (
	"errors"
	"math"
)

// BollingerBands holds the band series.
type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// CalculateBollinger computes SMA(period) ± stdDev × population standard deviation.
func CalculateBollinger(closes []float64, period int, stdDev float64) (BollingerBands, error) {
	if period <= 1 {
		return BollingerBands{}, errors.New("period must be greater than 1")
	}
	if stdDev <= 0 {
		return BollingerBands{}, errors.New("std-dev multiplier must be positive")
	}
	middle, err := SMA(closes, period)
	if err != nil {
		return BollingerBands{}, err
	}
	upper := nanSeries(len(closes))
	lower := nanSeries(len(closes))
	for i := period - 1; i < len(closes); i++ {
		ma := middle[i]
		sq := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - ma
			sq += d * d
		}
		sd := math.Sqrt(sq / float64(period))
		upper[i] = ma + stdDev*sd
		lower[i] = ma - stdDev*sd
	}
	return BollingerBands{Upper: upper, Middle: middle, Lower: lower}, nil
}

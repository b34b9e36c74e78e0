package calculator

import (
	"errors"
	"math"

	"BistSentinel/internal/model"
)

// DirectionalIndex holds ADX with the +DI/-DI lines it is derived from.
type DirectionalIndex struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// CalculateADX computes Wilder's average directional index.
// DI lines start at index `period`; ADX starts at index 2*period-1.
func CalculateADX(bars []model.OHLCV, period int) (DirectionalIndex, error) {
	if period <= 0 {
		return DirectionalIndex{}, errors.New("period must be positive")
	}
	n := len(bars)
	if n < 2*period {
		return DirectionalIndex{}, errors.New("not enough data for ADX calculation")
	}

	trs := trueRanges(bars)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	plusDI := nanSeries(n)
	minusDI := nanSeries(n)
	dx := nanSeries(n)

	var smTR, smPlus, smMinus float64
	for i := 1; i <= period; i++ {
		smTR += trs[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}
	for i := period; i < n; i++ {
		if i > period {
			smTR = smTR - smTR/float64(period) + trs[i]
			smPlus = smPlus - smPlus/float64(period) + plusDM[i]
			smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		}
		if smTR == 0 {
			plusDI[i], minusDI[i], dx[i] = 0, 0, 0
			continue
		}
		plusDI[i] = 100 * smPlus / smTR
		minusDI[i] = 100 * smMinus / smTR
		sum := plusDI[i] + minusDI[i]
		if sum == 0 {
			dx[i] = 0
		} else {
			dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
		}
	}

	adx := wilder(dx, period, period)
	return DirectionalIndex{ADX: adx, PlusDI: plusDI, MinusDI: minusDI}, nil
}

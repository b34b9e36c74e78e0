package calculator

import (
	"errors"

	"BistSentinel/internal/model"
)

// Stochastic holds the smoothed %K and its %D signal line.
type Stochastic struct {
	K []float64
	D []float64
}

// CalculateStochastic computes the slow stochastic oscillator:
// raw %K over kPeriod, smoothed by SMA(smoothK), and %D = SMA(%K, dPeriod).
func CalculateStochastic(bars []model.OHLCV, kPeriod, dPeriod, smoothK int) (Stochastic, error) {
	if kPeriod <= 0 || dPeriod <= 0 || smoothK <= 0 {
		return Stochastic{}, errors.New("periods must be positive")
	}
	n := len(bars)
	if n < kPeriod+smoothK+dPeriod-2 {
		return Stochastic{}, errors.New("not enough data for stochastic calculation")
	}

	raw := nanSeries(n)
	for i := kPeriod - 1; i < n; i++ {
		hh, ll := bars[i].High, bars[i].Low
		for j := i - kPeriod + 1; j < i; j++ {
			if bars[j].High > hh {
				hh = bars[j].High
			}
			if bars[j].Low < ll {
				ll = bars[j].Low
			}
		}
		if hh == ll {
			raw[i] = 50
			continue
		}
		raw[i] = 100 * (bars[i].Close - ll) / (hh - ll)
	}

	k, err := SMA(raw, smoothK)
	if err != nil {
		return Stochastic{}, err
	}
	d, err := SMA(k, dPeriod)
	if err != nil {
		return Stochastic{}, err
	}
	return Stochastic{K: k, D: d}, nil
}

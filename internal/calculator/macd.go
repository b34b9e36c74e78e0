package calculator

import (
	"errors"
	"fmt"
)

// MACD holds the line, signal and histogram series.
type MACD struct {
	Line   []float64
	Signal []float64
	Hist   []float64
}

// CalculateMACD returns EMA(fast) - EMA(slow) with an EMA(signal) of that difference.
func CalculateMACD(closes []float64, fast, slow, signal int) (MACD, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return MACD{}, errors.New("periods must be positive")
	}
	if fast >= slow {
		return MACD{}, fmt.Errorf("fast period %d must be below slow period %d", fast, slow)
	}
	fastEMA, err := EMA(closes, fast)
	if err != nil {
		return MACD{}, fmt.Errorf("fast ema: %w", err)
	}
	slowEMA, err := EMA(closes, slow)
	if err != nil {
		return MACD{}, fmt.Errorf("slow ema: %w", err)
	}

	line := nanSeries(len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i] // NaN propagates through warm-up
	}
	sig, err := EMA(line, signal)
	if err != nil {
		return MACD{}, fmt.Errorf("signal ema: %w", err)
	}
	hist := nanSeries(len(closes))
	for i := range closes {
		hist[i] = line[i] - sig[i]
	}
	return MACD{Line: line, Signal: sig, Hist: hist}, nil
}

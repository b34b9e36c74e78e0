package model

import "math"

// IndicatorFrame is a bar series extended with derived columns.
// Every column has the same length as Bars; warm-up positions hold NaN.
// A nil column means the indicator could not be computed at all.
type IndicatorFrame struct {
	Bars []OHLCV

	RSI        []float64
	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64
	SMA20      []float64
	SMA50      []float64
	SMA200     []float64
	EMA20      []float64
	EMA50      []float64
	ATR        []float64
	ADX        []float64
	PlusDI     []float64
	MinusDI    []float64
	BBUpper    []float64
	BBMiddle   []float64
	BBLower    []float64
	StochK     []float64
	StochD     []float64
	OBV        []float64
	OBVSMA     []float64
	VolumeSMA  []float64

	BullishEngulfing []bool
	Hammer           []bool
}

// Len returns the number of bars.
func (f *IndicatorFrame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Bars)
}

// Value returns col[i] and whether it is present and not NaN.
func Value(col []float64, i int) (float64, bool) {
	if i < 0 || i >= len(col) {
		return 0, false
	}
	v := col[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Flag returns col[i], false when the column is missing.
func Flag(col []bool, i int) bool {
	if i < 0 || i >= len(col) {
		return false
	}
	return col[i]
}

package strategy

import (
	"fmt"

	"BistSentinel/internal/model"
)

const (
	strongTrendADX   = 25.0
	volumeSpikeRatio = 1.5
	stochOversold    = 20.0
	stochOverbought  = 80.0
)

// Thresholds are the user-tunable decision thresholds.
type Thresholds struct {
	RSILower      float64
	RSIUpper      float64
	ATRMultiplier float64
}

// DefaultThresholds returns RSI 30/70 with a 2×ATR stop.
func DefaultThresholds() Thresholds {
	return Thresholds{RSILower: 30, RSIUpper: 70, ATRMultiplier: 2.0}
}

// crossedAbove reports a strict bullish cross of a over b between bars i-1 and i.
// Equality on either bar never counts.
func crossedAbove(a, b []float64, i int) bool {
	ca, ok1 := model.Value(a, i)
	cb, ok2 := model.Value(b, i)
	pa, ok3 := model.Value(a, i-1)
	pb, ok4 := model.Value(b, i-1)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return ca > cb && pa < pb
}

// Derive returns the active sub-signals for the latest bar of f, in catalogue order.
// A check whose inputs are missing or NaN is skipped.
func Derive(f *model.IndicatorFrame, th Thresholds, v Variant) ([]model.SubSignal, error) {
	n := f.Len()
	if n < 2 {
		return nil, fmt.Errorf("need 2 bars, have %d: %w", n, model.ErrInsufficientHistory)
	}
	cur := n - 1
	if !anyIndicator(f, cur) {
		return nil, fmt.Errorf("no indicator value on the latest bar: %w", model.ErrIndicatorUnavailable)
	}
	bar := f.Bars[cur]
	active := make(map[model.SignalKind]bool)

	if rsi, ok := model.Value(f.RSI, cur); ok {
		active[model.SignalRSIOversold] = rsi < th.RSILower
		active[model.SignalRSIOverbought] = rsi > th.RSIUpper
	}

	active[model.SignalMACDCross] = crossedAbove(f.MACD, f.MACDSignal, cur)
	active[model.SignalGoldenCross] = crossedAbove(f.SMA50, f.SMA200, cur)
	active[model.SignalEMACross] = crossedAbove(f.EMA20, f.EMA50, cur)

	if adx, ok := model.Value(f.ADX, cur); ok {
		active[model.SignalStrongTrend] = adx > strongTrendADX
		active[model.SignalWeakTrend] = adx < v.WeakTrendADX
	}

	if volSMA, ok := model.Value(f.VolumeSMA, cur); ok && volSMA > 0 {
		active[model.SignalVolumeSpike] = bar.Volume > volumeSpikeRatio*volSMA
	}

	if lower, ok := model.Value(f.BBLower, cur); ok {
		active[model.SignalBandOversold] = bar.Close < lower
	}
	if upper, ok := model.Value(f.BBUpper, cur); ok {
		active[model.SignalBandOverbought] = bar.Close > upper
	}

	if k, ok := model.Value(f.StochK, cur); ok {
		if d, ok := model.Value(f.StochD, cur); ok {
			active[model.SignalStochBuy] = k < stochOversold && k > d
		}
		active[model.SignalStochSell] = k > stochOverbought
	}

	if obv, ok := model.Value(f.OBV, cur); ok {
		if obvSMA, ok := model.Value(f.OBVSMA, cur); ok {
			active[model.SignalAccumulation] = obv > obvSMA
		}
	}

	active[model.SignalBullishEngulfing] = model.Flag(f.BullishEngulfing, cur)
	active[model.SignalHammer] = model.Flag(f.Hammer, cur)

	var signals []model.SubSignal
	for _, e := range Catalogue {
		if !active[e.Kind] || !v.Includes(e) {
			continue
		}
		signals = append(signals, model.SubSignal{Kind: e.Kind, Tag: e.Tag, Points: e.Points})
	}
	return signals, nil
}

// anyIndicator reports whether at least one indicator column has a value at i.
func anyIndicator(f *model.IndicatorFrame, i int) bool {
	for _, col := range [][]float64{f.RSI, f.MACD, f.SMA50, f.EMA20, f.ADX, f.ATR, f.VolumeSMA, f.BBLower, f.StochK, f.OBV} {
		if _, ok := model.Value(col, i); ok {
			return true
		}
	}
	return false
}

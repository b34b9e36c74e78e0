package strategy

import (
	"fmt"
	"math"

	"BistSentinel/internal/model"
)

// neutralRSI is reported when the latest bar has no RSI value.
const neutralRSI = 50

// Engine scores one ticker's indicator frame under a preset and thresholds.
type Engine struct {
	variant    Variant
	thresholds Thresholds
}

// NewEngine builds an engine for the preset. Thresholds are expected to be normalized.
func NewEngine(preset Preset, th Thresholds) (*Engine, error) {
	v, err := VariantFor(preset)
	if err != nil {
		return nil, err
	}
	for _, v := range []float64{th.RSILower, th.RSIUpper, th.ATRMultiplier} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("thresholds must be finite: %w", model.ErrInvalidConfig)
		}
	}
	if th.RSILower >= th.RSIUpper {
		return nil, fmt.Errorf("rsi lower %.0f must be below upper %.0f: %w", th.RSILower, th.RSIUpper, model.ErrInvalidConfig)
	}
	return &Engine{variant: v, thresholds: th}, nil
}

// Variant returns the active preset parameters.
func (e *Engine) Variant() Variant { return e.variant }

// Thresholds returns the configured thresholds.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Evaluate computes the full score row for the latest bar of f.
func (e *Engine) Evaluate(ticker string, f *model.IndicatorFrame) (*model.ScoreResult, error) {
	signals, err := Derive(f, e.thresholds, e.variant)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", ticker, err)
	}
	cur := f.Len() - 1
	bar := f.Bars[cur]

	total := 0
	active := make(map[model.SignalKind]bool, len(signals))
	for _, s := range signals {
		total += s.Points
		active[s.Kind] = true
	}

	rsi, rsiOK := model.Value(f.RSI, cur)
	decision := Decide(e.variant.Rules, DecisionInput{
		Score:  total,
		RSI:    rsi,
		RSIOK:  rsiOK,
		Active: active,
	}, e.thresholds)

	atr, _ := model.Value(f.ATR, cur)
	if !rsiOK {
		rsi = neutralRSI
	}

	return &model.ScoreResult{
		Ticker:     ticker,
		Price:      bar.Close,
		RSI:        rsi,
		Score:      total,
		Decision:   decision,
		Signals:    signals,
		Commentary: Commentary(signals),
		Risk:       ComputeRisk(bar.Close, atr, e.thresholds.ATRMultiplier, e.variant.TwoTargets),
		BarTime:    bar.Time,
	}, nil
}

package strategy

import (
	"fmt"

	"BistSentinel/internal/model"
)

// Preset names a rule-table variant.
type Preset string

const (
	PresetFull  Preset = "full"
	PresetLight Preset = "light"
)

// Entry is one row of the sub-signal catalogue.
type Entry struct {
	Kind   model.SignalKind
	Tag    string
	Points int
	Light  bool // included in the light preset
}

// Catalogue is the ordered sub-signal table. Active signals are reported in this order.
var Catalogue = []Entry{
	{model.SignalRSIOversold, "RSI Dip", 2, true},
	{model.SignalRSIOverbought, "RSI High", -2, true},
	{model.SignalMACDCross, "MACD Cross", 3, true},
	{model.SignalGoldenCross, "Golden Cross", 5, true},
	{model.SignalEMACross, "EMA Cross", 3, true},
	{model.SignalStrongTrend, "Strong Trend", 1, true},
	{model.SignalWeakTrend, "Flat Trend", 0, true},
	{model.SignalBandOversold, "BB Dip", 2, false},
	{model.SignalBandOverbought, "BB Top", -2, false},
	{model.SignalStochBuy, "Stoch Buy", 2, false},
	{model.SignalStochSell, "Stoch Sell", -1, false},
	{model.SignalVolumeSpike, "Volume Spike", 1, false},
	{model.SignalAccumulation, "OBV Accumulation", 1, false},
	{model.SignalBullishEngulfing, "Bullish Engulfing", 2, false},
	{model.SignalHammer, "Hammer", 2, false},
}

// Variant bundles the preset-dependent parameters of the engine.
type Variant struct {
	Preset       Preset
	WeakTrendADX float64
	MinBars      int
	TwoTargets   bool
	Rules        []Rule
}

// Includes reports whether the variant scores the given entry.
func (v Variant) Includes(e Entry) bool {
	return v.Preset == PresetFull || e.Light
}

// VariantFor returns the variant registered under the preset name.
func VariantFor(p Preset) (Variant, error) {
	switch p {
	case PresetFull:
		return Variant{Preset: PresetFull, WeakTrendADX: 20, MinBars: 100, TwoTargets: true, Rules: FullRules}, nil
	case PresetLight:
		return Variant{Preset: PresetLight, WeakTrendADX: 18, MinBars: 60, TwoTargets: false, Rules: LightRules}, nil
	}
	return Variant{}, fmt.Errorf("unknown preset %q: %w", p, model.ErrInvalidConfig)
}

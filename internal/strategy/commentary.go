package strategy

import (
	"strings"

	"BistSentinel/internal/model"
)

const neutralCommentary = "Normal market conditions, no notable signal."

type clause struct {
	kinds []model.SignalKind
	text  string
}

// commentaryClauses are emitted in this order, at most one per row.
var commentaryClauses = []clause{
	{[]model.SignalKind{model.SignalRSIOversold}, "RSI oversold, bounce possible"},
	{[]model.SignalKind{model.SignalRSIOverbought}, "RSI overbought, pullback risk"},
	{[]model.SignalKind{model.SignalMACDCross}, "MACD turned up"},
	{[]model.SignalKind{model.SignalStrongTrend}, "trend is strong"},
	{[]model.SignalKind{model.SignalWeakTrend}, "trend is flat"},
	{[]model.SignalKind{model.SignalGoldenCross}, "golden cross on SMA50/200"},
	{[]model.SignalKind{model.SignalEMACross}, "EMA20 crossed above EMA50"},
	{[]model.SignalKind{model.SignalBullishEngulfing, model.SignalHammer}, "reversal candle formed"},
	{[]model.SignalKind{model.SignalBandOversold}, "price below lower Bollinger band"},
	{[]model.SignalKind{model.SignalBandOverbought}, "price above upper Bollinger band"},
	{[]model.SignalKind{model.SignalStochBuy}, "stochastic turning up from oversold"},
	{[]model.SignalKind{model.SignalStochSell}, "stochastic overbought"},
	{[]model.SignalKind{model.SignalVolumeSpike}, "volume surge"},
	{[]model.SignalKind{model.SignalAccumulation}, "OBV shows accumulation"},
}

// Commentary joins the clauses of the active signals in a fixed order.
func Commentary(signals []model.SubSignal) string {
	active := make(map[model.SignalKind]bool, len(signals))
	for _, s := range signals {
		active[s.Kind] = true
	}
	var parts []string
	for _, c := range commentaryClauses {
		for _, k := range c.kinds {
			if active[k] {
				parts = append(parts, c.text)
				break
			}
		}
	}
	if len(parts) == 0 {
		return neutralCommentary
	}
	return strings.Join(parts, " | ")
}

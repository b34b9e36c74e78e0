package strategy

import "BistSentinel/internal/model"

// RSICondition constrains the RSI side of a rule.
type RSICondition int

const (
	RSIAny RSICondition = iota
	RSIAboveUpper
	RSIBelowLower
)

// Rule is one row of an ordered decision table. Zero-valued fields match anything.
type Rule struct {
	Decision model.Decision
	RSI      RSICondition
	MinScore *int
	MaxScore *int
	AnyOf    []model.SignalKind
	NoneOf   []model.SignalKind
}

func score(v int) *int { return &v }

// FullRules is the decision table of the full preset. First match wins.
var FullRules = []Rule{
	{Decision: model.DecisionStrongSell, RSI: RSIAboveUpper, MaxScore: score(-1)},
	{Decision: model.DecisionSell, RSI: RSIAboveUpper},
	{Decision: model.DecisionStrongBuy, MinScore: score(6), AnyOf: []model.SignalKind{model.SignalBandOversold}},
	{Decision: model.DecisionBuy, MinScore: score(4), AnyOf: []model.SignalKind{model.SignalMACDCross}},
	{Decision: model.DecisionWeakBuy, MinScore: score(2), AnyOf: []model.SignalKind{model.SignalBandOversold, model.SignalStochBuy}},
	{Decision: model.DecisionWatchBottom, RSI: RSIBelowLower, NoneOf: []model.SignalKind{model.SignalMACDCross}},
	{Decision: model.DecisionAvoid, MaxScore: score(-2)},
	{Decision: model.DecisionHold},
}

// LightRules is the decision table of the light preset.
var LightRules = []Rule{
	{Decision: model.DecisionSell, RSI: RSIAboveUpper},
	{Decision: model.DecisionStrongBuy, MinScore: score(5)},
	{Decision: model.DecisionBuy, MinScore: score(3)},
	{Decision: model.DecisionWatchBottom, RSI: RSIBelowLower},
	{Decision: model.DecisionAvoid, MaxScore: score(-2)},
	{Decision: model.DecisionHold},
}

// DecisionInput is everything a rule may consult.
type DecisionInput struct {
	Score  int
	RSI    float64
	RSIOK  bool
	Active map[model.SignalKind]bool
}

func (r Rule) matches(in DecisionInput, th Thresholds) bool {
	switch r.RSI {
	case RSIAboveUpper:
		if !in.RSIOK || in.RSI <= th.RSIUpper {
			return false
		}
	case RSIBelowLower:
		if !in.RSIOK || in.RSI >= th.RSILower {
			return false
		}
	}
	if r.MinScore != nil && in.Score < *r.MinScore {
		return false
	}
	if r.MaxScore != nil && in.Score > *r.MaxScore {
		return false
	}
	if len(r.AnyOf) > 0 {
		hit := false
		for _, k := range r.AnyOf {
			if in.Active[k] {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for _, k := range r.NoneOf {
		if in.Active[k] {
			return false
		}
	}
	return true
}

// Decide walks rules top to bottom and returns the first match.
func Decide(rules []Rule, in DecisionInput, th Thresholds) model.Decision {
	for _, r := range rules {
		if r.matches(in, th) {
			return r.Decision
		}
	}
	return model.DecisionHold
}

package strategy

import (
	"math"

	"BistSentinel/internal/model"
)

// ComputeRisk derives the ATR stop and the reward targets from the latest price.
// A zero or missing ATR, or a stop that would not be a positive price,
// yields no stop and no targets.
func ComputeRisk(price, atr, multiplier float64, twoTargets bool) model.RiskLevels {
	if !finitePositive(atr) || !finitePositive(multiplier) || !finitePositive(price) {
		return model.RiskLevels{}
	}
	stop := price - atr*multiplier
	if stop <= 0 {
		return model.RiskLevels{}
	}
	risk := math.Max(0, price-stop)

	levels := model.RiskLevels{StopLoss: &stop, Risk: risk}
	t3 := price + 3*risk
	levels.Target2 = &t3
	if twoTargets {
		t2 := price + 2*risk
		levels.Target1 = &t2
	}
	return levels
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

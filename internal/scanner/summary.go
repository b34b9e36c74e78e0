package scanner

import (
	"sort"

	"BistSentinel/internal/model"
)

// Summary counts results per decision group.
type Summary struct {
	StrongBuy int `json:"strong_buy"`
	Buy       int `json:"buy"`
	Sell      int `json:"sell"`
	Watch     int `json:"watch"`
}

// Summarize groups results: Buy covers every buy label, Sell every sell label,
// Watch the hold and bottom-watch labels.
func Summarize(results []model.ScoreResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Decision {
		case model.DecisionStrongBuy:
			s.StrongBuy++
			s.Buy++
		case model.DecisionBuy, model.DecisionWeakBuy:
			s.Buy++
		case model.DecisionStrongSell, model.DecisionSell:
			s.Sell++
		case model.DecisionHold, model.DecisionWatchBottom:
			s.Watch++
		}
	}
	return s
}

// SortByScore orders results by score descending, then ticker ascending.
func SortByScore(results []model.ScoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Ticker < results[j].Ticker
	})
}

// Top returns at most n results sorted by score.
func Top(results []model.ScoreResult, n int) []model.ScoreResult {
	out := make([]model.ScoreResult, len(results))
	copy(out, results)
	SortByScore(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

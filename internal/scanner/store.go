package scanner

import (
	"sync"

	"BistSentinel/internal/model"
)

// Store keeps the most recent scan report. Each scan replaces it entirely.
type Store struct {
	mu     sync.RWMutex
	report *model.ScanReport
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Save replaces the stored report.
func (s *Store) Save(r *model.ScanReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
}

// Last returns a copy of the latest report, or a NOT_RUN report before the first scan.
func (s *Store) Last() model.ScanReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return model.ScanReport{Status: model.ScanNotRun, Message: "No scan has been run yet."}
	}
	out := *s.report
	out.Results = make([]model.ScoreResult, len(s.report.Results))
	copy(out.Results, s.report.Results)
	return out
}

// Prices returns the last scanned price per ticker.
func (s *Store) Prices() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prices := make(map[string]float64)
	if s.report == nil {
		return prices
	}
	for _, r := range s.report.Results {
		prices[r.Ticker] = r.Price
	}
	return prices
}

package alert

import (
	"fmt"
	"sync"
	"time"

	"BistSentinel/internal/model"
)

const (
	MinLogSize     = 8
	MaxLogSize     = 10
	DefaultLogSize = 10
)

// Deduplicator fires each (ticker, kind, bar) crossover at most once per process
// and keeps a short most-recent-first log of what fired.
type Deduplicator struct {
	mu      sync.Mutex
	seen    map[model.AlertKey]struct{}
	log     []model.AlertEvent
	size    int
	enabled map[model.SignalKind]bool
	sound   model.AlertSound
	now     func() time.Time
}

// NewDeduplicator creates a deduplicator. size is clamped to [MinLogSize, MaxLogSize].
// A nil enabled map enables every crossover kind.
func NewDeduplicator(size int, enabled map[model.SignalKind]bool, sound model.AlertSound) *Deduplicator {
	if size < MinLogSize {
		size = MinLogSize
	}
	if size > MaxLogSize {
		size = MaxLogSize
	}
	if enabled == nil {
		enabled = map[model.SignalKind]bool{
			model.SignalMACDCross:   true,
			model.SignalGoldenCross: true,
			model.SignalEMACross:    true,
		}
	}
	return &Deduplicator{
		seen:    make(map[model.AlertKey]struct{}),
		size:    size,
		enabled: enabled,
		sound:   sound,
		now:     time.Now,
	}
}

func normalizeKey(k model.AlertKey) model.AlertKey {
	k.Ticker = model.NormalizeTicker(k.Ticker)
	k.BarTime = k.BarTime.UTC().Round(0)
	return k
}

// ShouldFire returns true the first time a key is seen and false afterwards.
func (d *Deduplicator) ShouldFire(key model.AlertKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.markLocked(normalizeKey(key))
}

func (d *Deduplicator) markLocked(key model.AlertKey) bool {
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Enabled reports whether alerts of the kind are switched on.
func (d *Deduplicator) Enabled(kind model.SignalKind) bool {
	return kind.IsCrossover() && d.enabled[kind]
}

// Process fires an event for every enabled, not yet seen crossover in res.
func (d *Deduplicator) Process(res *model.ScoreResult) []model.AlertEvent {
	var fired []model.AlertEvent
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range res.Signals {
		if !d.Enabled(s.Kind) {
			continue
		}
		key := normalizeKey(model.AlertKey{Ticker: res.Ticker, Kind: s.Kind, BarTime: res.BarTime})
		if !d.markLocked(key) {
			continue
		}
		ev := model.AlertEvent{
			Ticker:  key.Ticker,
			Kind:    s.Kind,
			BarTime: key.BarTime,
			Message: fmt.Sprintf("%s: %s at %.2f (%s)", key.Ticker, s.Tag, res.Price, key.BarTime.Format("2006-01-02 15:04")),
			Sound:   d.sound,
			FiredAt: d.now(),
		}
		d.pushLocked(ev)
		fired = append(fired, ev)
	}
	return fired
}

func (d *Deduplicator) pushLocked(ev model.AlertEvent) {
	d.log = append([]model.AlertEvent{ev}, d.log...)
	if len(d.log) > d.size {
		d.log = d.log[:d.size]
	}
}

// Recent returns a copy of the alert log, most recent first.
func (d *Deduplicator) Recent() []model.AlertEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.AlertEvent, len(d.log))
	copy(out, d.log)
	return out
}

// SeenCount returns the number of keys recorded so far.
func (d *Deduplicator) SeenCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// ClearLog empties the display log. Seen keys are kept.
func (d *Deduplicator) ClearLog() {
	d.mu.Lock()
	d.log = nil
	d.mu.Unlock()
}

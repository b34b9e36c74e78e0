package model

import "time"

// AlertSound is the optional audible cue attached to an alert.
type AlertSound string

const (
	SoundNone  AlertSound = "none"
	SoundBeep  AlertSound = "beep"
	SoundChime AlertSound = "chime"
	SoundSiren AlertSound = "siren"
)

// Valid reports whether s is a known sound.
func (s AlertSound) Valid() bool {
	switch s {
	case SoundNone, SoundBeep, SoundChime, SoundSiren:
		return true
	}
	return false
}

// AlertKey identifies one crossover occurrence on one bar.
type AlertKey struct {
	Ticker  string
	Kind    SignalKind
	BarTime time.Time
}

// AlertEvent is an entry of the recent-alerts log.
type AlertEvent struct {
	Ticker  string     `json:"ticker"`
	Kind    SignalKind `json:"kind"`
	BarTime time.Time  `json:"bar_time"`
	Message string     `json:"message"`
	Sound   AlertSound `json:"sound"`
	FiredAt time.Time  `json:"fired_at"`
}

package model

import (
	"errors"
	"time"
)

var (
	ErrDataUnavailable      = errors.New("data unavailable")
	ErrIndicatorUnavailable = errors.New("indicator unavailable")
	ErrInsufficientHistory  = errors.New("insufficient history")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrScanInProgress       = errors.New("scan already in progress")
)

// SignalKind names one entry of the sub-signal catalogue.
type SignalKind string

const (
	SignalRSIOversold      SignalKind = "RSI_OVERSOLD"
	SignalRSIOverbought    SignalKind = "RSI_OVERBOUGHT"
	SignalMACDCross        SignalKind = "MACD_CROSS"
	SignalGoldenCross      SignalKind = "GOLDEN_CROSS"
	SignalEMACross         SignalKind = "EMA_CROSS"
	SignalStrongTrend      SignalKind = "STRONG_TREND"
	SignalWeakTrend        SignalKind = "WEAK_TREND"
	SignalBandOversold     SignalKind = "BB_OVERSOLD"
	SignalBandOverbought   SignalKind = "BB_OVERBOUGHT"
	SignalStochBuy         SignalKind = "STOCH_BUY"
	SignalStochSell        SignalKind = "STOCH_SELL"
	SignalVolumeSpike      SignalKind = "VOLUME_SPIKE"
	SignalAccumulation     SignalKind = "OBV_ACCUMULATION"
	SignalBullishEngulfing SignalKind = "BULLISH_ENGULFING"
	SignalHammer           SignalKind = "HAMMER"
)

// IsCrossover reports whether the kind is a two-bar crossover event.
func (k SignalKind) IsCrossover() bool {
	switch k {
	case SignalMACDCross, SignalGoldenCross, SignalEMACross:
		return true
	}
	return false
}

// SubSignal is one active flag with its score contribution.
type SubSignal struct {
	Kind   SignalKind `json:"kind"`
	Tag    string     `json:"tag"`
	Points int        `json:"points"`
}

// Decision is the discrete label produced by the rule table.
type Decision string

const (
	DecisionStrongSell  Decision = "STRONG SELL"
	DecisionSell        Decision = "SELL"
	DecisionStrongBuy   Decision = "STRONG BUY"
	DecisionBuy         Decision = "BUY"
	DecisionWeakBuy     Decision = "WEAK BUY"
	DecisionWatchBottom Decision = "WATCH BOTTOM"
	DecisionAvoid       Decision = "AVOID"
	DecisionHold        Decision = "HOLD/WATCH"
)

// RiskLevels holds stop-loss and profit targets. Nil pointers mean absent.
type RiskLevels struct {
	StopLoss *float64 `json:"stop_loss,omitempty"`
	Risk     float64  `json:"risk"`
	Target1  *float64 `json:"target_1,omitempty"` // 1:2
	Target2  *float64 `json:"target_2,omitempty"` // 1:3
}

// ScoreResult is one immutable row of a scan.
type ScoreResult struct {
	Ticker     string      `json:"ticker"`
	Price      float64     `json:"price"`
	RSI        float64     `json:"rsi"`
	Score      int         `json:"score"`
	Decision   Decision    `json:"decision"`
	Signals    []SubSignal `json:"signals"`
	Commentary string      `json:"commentary"`
	Risk       RiskLevels  `json:"risk"`
	Held       bool        `json:"held"`
	BarTime    time.Time   `json:"bar_time"`
}

// SignalTags returns the display tags of the active signals in order.
func (r *ScoreResult) SignalTags() []string {
	tags := make([]string, 0, len(r.Signals))
	for _, s := range r.Signals {
		tags = append(tags, s.Tag)
	}
	return tags
}

// ScanStatus distinguishes an empty result set's cause.
type ScanStatus string

const (
	ScanNotRun    ScanStatus = "NOT_RUN"
	ScanNoMatches ScanStatus = "NO_MATCHES"
	ScanOK        ScanStatus = "OK"
)

// ScanReport is the outcome of one scan. Results are replaced wholesale per scan.
type ScanReport struct {
	Status     ScanStatus    `json:"status"`
	Message    string        `json:"message"`
	Timeframe  Timeframe     `json:"timeframe"`
	Results    []ScoreResult `json:"results"`
	Scanned    int           `json:"scanned"`
	Skipped    int           `json:"skipped"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

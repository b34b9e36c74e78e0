package recorder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"BistSentinel/internal/model"
)

// Recorder persists scan and alert history for offline analysis.
// Nothing is ever read back by the application.
type Recorder interface {
	RecordScan(report *model.ScanReport) error
	RecordAlert(ev *model.AlertEvent) error
	Close() error
}

// New builds the recorder selected by driver: "none", "sqlite" or "postgres".
func New(ctx context.Context, driver, sqlitePath, postgresURL string) (Recorder, error) {
	switch driver {
	case "", "none":
		return NewNoopRecorder(), nil
	case "sqlite":
		if dir := filepath.Dir(sqlitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		return NewSQLiteRecorder(sqlitePath)
	case "postgres":
		return NewPostgresRecorder(ctx, postgresURL)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

// resultRow flattens a ScoreResult into column values shared by both SQL backends.
type resultRow struct {
	Ticker   string
	Price    float64
	RSI      float64
	Score    int
	Decision string
	Signals  string
	StopLoss *float64
	Target1  *float64
	Target2  *float64
	Held     bool
}

func flatten(r model.ScoreResult) resultRow {
	return resultRow{
		Ticker:   r.Ticker,
		Price:    r.Price,
		RSI:      r.RSI,
		Score:    r.Score,
		Decision: string(r.Decision),
		Signals:  strings.Join(r.SignalTags(), " | "),
		StopLoss: r.Risk.StopLoss,
		Target1:  r.Risk.Target1,
		Target2:  r.Risk.Target2,
		Held:     r.Held,
	}
}

package saver

import (
	"strings"
	"time"

	"BistSentinel/internal/model"
)

// Row is the flat export record of one scan result.
type Row struct {
	ScannedAt  int64    `json:"scanned_at" parquet:"scanned_at"`
	Ticker     string   `json:"ticker" parquet:"ticker"`
	Price      float64  `json:"price" parquet:"price"`
	RSI        float64  `json:"rsi" parquet:"rsi"`
	Score      int64    `json:"score" parquet:"score"`
	Decision   string   `json:"decision" parquet:"decision"`
	Signals    string   `json:"signals" parquet:"signals"`
	Commentary string   `json:"commentary" parquet:"commentary"`
	StopLoss   *float64 `json:"stop_loss,omitempty" parquet:"stop_loss,optional"`
	Target1    *float64 `json:"target_1,omitempty" parquet:"target_1,optional"`
	Target2    *float64 `json:"target_2,omitempty" parquet:"target_2,optional"`
	Held       bool     `json:"held" parquet:"held"`
}

// Rows flattens a report into export rows in result order.
func Rows(report *model.ScanReport) []Row {
	if report == nil {
		return nil
	}
	ts := report.FinishedAt.Unix()
	rows := make([]Row, 0, len(report.Results))
	for i := range report.Results {
		r := &report.Results[i]
		rows = append(rows, Row{
			ScannedAt:  ts,
			Ticker:     r.Ticker,
			Price:      r.Price,
			RSI:        r.RSI,
			Score:      int64(r.Score),
			Decision:   string(r.Decision),
			Signals:    strings.Join(r.SignalTags(), " | "),
			Commentary: r.Commentary,
			StopLoss:   r.Risk.StopLoss,
			Target1:    r.Risk.Target1,
			Target2:    r.Risk.Target2,
			Held:       r.Held,
		})
	}
	return rows
}

// FileName returns the export file name for a scan finished at t.
func FileName(t time.Time, ext string) string {
	return "scan_" + t.Format("20060102_150405") + "." + ext
}

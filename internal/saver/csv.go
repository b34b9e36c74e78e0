package saver

import (
	"encoding/csv"
	"os"
	"strconv"
)

var csvHeader = []string{
	"scanned_at", "ticker", "price", "rsi", "score", "decision",
	"signals", "commentary", "stop_loss", "target_1", "target_2", "held",
}

// CSVSaver writes rows as CSV with a header line.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(r.ScannedAt, 10),
			r.Ticker,
			formatFloat(r.Price),
			formatFloat(r.RSI),
			strconv.FormatInt(r.Score, 10),
			r.Decision,
			r.Signals,
			r.Commentary,
			formatOptional(r.StopLoss),
			formatOptional(r.Target1),
			formatOptional(r.Target2),
			strconv.FormatBool(r.Held),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

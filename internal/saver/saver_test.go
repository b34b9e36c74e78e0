package saver

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"BistSentinel/internal/model"
)

func testReport() *model.ScanReport {
	stop, t2 := 95.0, 115.0
	return &model.ScanReport{
		Status:     model.ScanOK,
		FinishedAt: time.Date(2024, 6, 3, 18, 31, 5, 0, time.UTC),
		Results: []model.ScoreResult{
			{Ticker: "ASELS", Price: 100, RSI: 25.5, Score: 4, Decision: model.DecisionBuy,
				Signals: []model.SubSignal{{Tag: "RSI Dip"}, {Tag: "Hammer"}},
				Risk:    model.RiskLevels{StopLoss: &stop, Risk: 5, Target2: &t2}},
			{Ticker: "SISE", Price: 50, Decision: model.DecisionHold, Held: true},
		},
	}
}

func TestNewResultSaver(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"csv", "csv"},
		{" JSON ", "json"},
		{"parquet", "parquet"},
		{"xml", ""},
	}
	for _, tt := range tests {
		s := NewResultSaver(tt.format)
		if tt.ext == "" {
			if s != nil {
				t.Errorf("%q: expected nil saver", tt.format)
			}
			continue
		}
		if s == nil || s.Extension() != tt.ext {
			t.Errorf("%q: got %v", tt.format, s)
		}
	}
}

func TestRowsFlattenResults(t *testing.T) {
	rows := Rows(testReport())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Signals != "RSI Dip | Hammer" || rows[0].Target1 != nil || *rows[0].Target2 != 115 {
		t.Errorf("unexpected row %+v", rows[0])
	}
	if !rows[1].Held || rows[1].StopLoss != nil {
		t.Errorf("unexpected row %+v", rows[1])
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2024, 6, 3, 18, 31, 5, 0, time.UTC), "csv")
	if got != "scan_20240603_183105.csv" {
		t.Errorf("got %s", got)
	}
}

func TestExportCSV(t *testing.T) {
	e, err := NewExporter(t.TempDir(), "csv")
	if err != nil {
		t.Fatal(err)
	}
	path, err := e.Export(testReport())
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(recs))
	}
	if recs[1][1] != "ASELS" || recs[1][8] != "95.00" || recs[1][9] != "" {
		t.Errorf("unexpected record %v", recs[1])
	}
}

func TestExportJSON(t *testing.T) {
	e, _ := NewExporter(t.TempDir(), "json")
	path, err := e.Export(testReport())
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1].Ticker != "SISE" {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestExportParquet(t *testing.T) {
	dir := t.TempDir()
	e, _ := NewExporter(dir, "parquet")
	path, err := e.Export(testReport())
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(path) != ".parquet" {
		t.Errorf("unexpected path %s", path)
	}
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Ticker != "ASELS" {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestExporterDisabledAndEmpty(t *testing.T) {
	e, err := NewExporter("", "csv")
	if err != nil || e != nil {
		t.Fatalf("expected disabled exporter, got %v %v", e, err)
	}
	if path, err := e.Export(testReport()); path != "" || err != nil {
		t.Errorf("nil exporter should be a no-op")
	}

	e, _ = NewExporter(t.TempDir(), "csv")
	if path, _ := e.Export(&model.ScanReport{Status: model.ScanNoMatches}); path != "" {
		t.Errorf("empty report should not be written")
	}

	if _, err := NewExporter("out", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

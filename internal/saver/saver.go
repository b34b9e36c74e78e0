package saver

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"BistSentinel/internal/model"
)

// ResultSaver writes one scan's rows to a file.
type ResultSaver interface {
	Save(rows []Row, path string) error
	Extension() string
}

// NewResultSaver returns the implementation for format (csv, json, parquet),
// or nil if the format is not supported.
func NewResultSaver(format string) ResultSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "json":
		return JSONSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// Exporter writes every finished scan into Dir.
type Exporter struct {
	Dir   string
	Saver ResultSaver
}

// NewExporter returns nil when dir is empty, which disables exporting.
func NewExporter(dir, format string) (*Exporter, error) {
	if dir == "" {
		return nil, nil
	}
	s := NewResultSaver(format)
	if s == nil {
		return nil, fmt.Errorf("saver: unsupported format %q (use csv, json, parquet)", format)
	}
	return &Exporter{Dir: dir, Saver: s}, nil
}

// Export writes the report and returns the file path. Reports without
// results are not written.
func (e *Exporter) Export(report *model.ScanReport) (string, error) {
	if e == nil || report == nil || len(report.Results) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(e.Dir, FileName(report.FinishedAt, e.Saver.Extension()))
	if err := e.Saver.Save(Rows(report), path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	log.Printf("[INFO] exported %d results to %s", len(report.Results), path)
	return path, nil
}

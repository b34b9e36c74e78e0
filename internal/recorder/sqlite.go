package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"BistSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets dashboards read while scans write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			timeframe   TEXT,
			status      TEXT,
			scanned     INTEGER,
			skipped     INTEGER,
			matched     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_ts ON scans(started_at)`,

		`CREATE TABLE IF NOT EXISTS scan_results (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id   INTEGER NOT NULL REFERENCES scans(id),
			ticker    TEXT NOT NULL,
			price     REAL,
			rsi       REAL,
			score     INTEGER,
			decision  TEXT,
			signals   TEXT,
			stop_loss REAL,
			target_1  REAL,
			target_2  REAL,
			held      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_ticker ON scan_results(ticker)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			fired_at INTEGER NOT NULL,
			ticker   TEXT NOT NULL,
			kind     TEXT NOT NULL,
			bar_time INTEGER NOT NULL,
			message  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(fired_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordScan writes the scan header and every result row in one transaction.
func (r *SQLiteRecorder) RecordScan(report *model.ScanReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO scans
		(started_at, finished_at, timeframe, status, scanned, skipped, matched)
		VALUES (?,?,?,?,?,?,?)`,
		report.StartedAt.Unix(), report.FinishedAt.Unix(), string(report.Timeframe),
		string(report.Status), report.Scanned, report.Skipped, len(report.Results),
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	scanID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("scan id: %w", err)
	}

	for _, result := range report.Results {
		row := flatten(result)
		if _, err := tx.Exec(`INSERT INTO scan_results
			(scan_id, ticker, price, rsi, score, decision, signals, stop_loss, target_1, target_2, held)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			scanID, row.Ticker, row.Price, row.RSI, row.Score, row.Decision, row.Signals,
			row.StopLoss, row.Target1, row.Target2, row.Held,
		); err != nil {
			return fmt.Errorf("insert result %s: %w", row.Ticker, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordAlert(ev *model.AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alerts
		(fired_at, ticker, kind, bar_time, message)
		VALUES (?,?,?,?,?)`,
		ev.FiredAt.Unix(), ev.Ticker, string(ev.Kind), ev.BarTime.Unix(), ev.Message,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

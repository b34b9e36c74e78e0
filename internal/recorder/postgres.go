package recorder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"BistSentinel/internal/model"
)

const pgWriteTimeout = 10 * time.Second

// PostgresRecorder persists historical data to PostgreSQL through a pgx pool.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder connects to databaseURL and creates the tables if needed.
func NewPostgresRecorder(ctx context.Context, databaseURL string) (*PostgresRecorder, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = 4
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{pool: pool}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Println("[INFO] postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`create table if not exists scans (
			id bigserial primary key,
			started_at timestamptz not null,
			finished_at timestamptz not null,
			timeframe text,
			status text,
			scanned int,
			skipped int,
			matched int
		)`,
		`create table if not exists scan_results (
			id bigserial primary key,
			scan_id bigint not null references scans(id) on delete cascade,
			ticker text not null,
			price double precision,
			rsi double precision,
			score int,
			decision text,
			signals text,
			stop_loss double precision,
			target_1 double precision,
			target_2 double precision,
			held boolean not null default false
		)`,
		`create index if not exists idx_scan_results_ticker on scan_results(ticker)`,
		`create table if not exists alerts (
			id bigserial primary key,
			fired_at timestamptz not null,
			ticker text not null,
			kind text not null,
			bar_time timestamptz not null,
			message text
		)`,
		`create index if not exists idx_alerts_fired_at on alerts(fired_at)`,
	}
	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordScan(report *model.ScanReport) error {
	ctx, cancel := context.WithTimeout(context.Background(), pgWriteTimeout)
	defer cancel()

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var scanID int64
		err := tx.QueryRow(ctx, `insert into scans
			(started_at, finished_at, timeframe, status, scanned, skipped, matched)
			values ($1,$2,$3,$4,$5,$6,$7) returning id`,
			report.StartedAt, report.FinishedAt, string(report.Timeframe), string(report.Status),
			report.Scanned, report.Skipped, len(report.Results),
		).Scan(&scanID)
		if err != nil {
			return fmt.Errorf("insert scan: %w", err)
		}

		batch := &pgx.Batch{}
		for _, result := range report.Results {
			row := flatten(result)
			batch.Queue(`insert into scan_results
				(scan_id, ticker, price, rsi, score, decision, signals, stop_loss, target_1, target_2, held)
				values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
				scanID, row.Ticker, row.Price, row.RSI, row.Score, row.Decision, row.Signals,
				row.StopLoss, row.Target1, row.Target2, row.Held)
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (r *PostgresRecorder) RecordAlert(ev *model.AlertEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), pgWriteTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `insert into alerts
		(fired_at, ticker, kind, bar_time, message)
		values ($1,$2,$3,$4,$5)`,
		ev.FiredAt, ev.Ticker, string(ev.Kind), ev.BarTime, ev.Message,
	)
	return err
}

func (r *PostgresRecorder) Close() error {
	log.Println("[INFO] closing postgres recorder")
	r.pool.Close()
	return nil
}

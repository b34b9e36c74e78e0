package scanner

import (
	"context"
	"fmt"
	"log"
	"time"

	"BistSentinel/internal/alert"
	"BistSentinel/internal/calculator"
	"BistSentinel/internal/collector"
	"BistSentinel/internal/model"
	"BistSentinel/internal/strategy"
)

// Holdings is the read-only view of the portfolio the scanner needs.
type Holdings interface {
	Holds(ticker string) bool
	Tickers() []string
}

// Options configures one scanner.
type Options struct {
	Tickers   []string
	Timeframe model.Timeframe
	Params    calculator.Params
	Workers   int
}

// Scanner runs the fetch → indicators → score pipeline over the ticker universe.
type Scanner struct {
	fetcher  collector.Fetcher
	engine   *strategy.Engine
	alerts   *alert.Deduplicator
	holdings Holdings
	store    *Store
	opts     Options
}

// New creates a scanner. fetcher is expected to already carry its retry policy.
func New(fetcher collector.Fetcher, engine *strategy.Engine, alerts *alert.Deduplicator, holdings Holdings, store *Store, opts Options) *Scanner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if !opts.Timeframe.Valid() {
		opts.Timeframe = model.TimeframeClassic
	}
	return &Scanner{
		fetcher:  fetcher,
		engine:   engine,
		alerts:   alerts,
		holdings: holdings,
		store:    store,
		opts:     opts,
	}
}

// Store returns the report store the scanner writes to.
func (s *Scanner) Store() *Store { return s.store }

// universe returns the configured tickers followed by held tickers not already listed.
func (s *Scanner) universe() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		t = model.NormalizeTicker(t)
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, t := range s.opts.Tickers {
		add(t)
	}
	if s.holdings != nil {
		for _, t := range s.holdings.Tickers() {
			add(t)
		}
	}
	return out
}

// Scan runs one full pass and stores the report. Per-ticker failures are logged and skipped.
func (s *Scanner) Scan(ctx context.Context) (*model.ScanReport, []model.AlertEvent) {
	start := time.Now()
	period, interval := s.opts.Timeframe.Window()
	tickers := s.universe()
	log.Printf("[INFO] Scan started: %d tickers, timeframe=%s (%s/%s)", len(tickers), s.opts.Timeframe, period, interval)

	symbols := make([]string, len(tickers))
	for i, t := range tickers {
		symbols[i] = model.ExchangeSymbol(t)
	}
	batch := collector.FetchAll(ctx, s.fetcher, symbols, period, interval, s.opts.Workers)

	report := &model.ScanReport{
		Timeframe: s.opts.Timeframe,
		StartedAt: start,
	}
	var fired []model.AlertEvent

	for i, ticker := range tickers {
		bars, ok := batch.Bars[symbols[i]]
		if !ok {
			log.Printf("[WARN] %s skipped: %v", ticker, batch.Failed[symbols[i]])
			report.Skipped++
			continue
		}
		res, err := s.evaluate(ticker, bars)
		if err != nil {
			log.Printf("[WARN] %s skipped: %v", ticker, err)
			report.Skipped++
			continue
		}
		report.Scanned++

		if s.alerts != nil {
			fired = append(fired, s.alerts.Process(res)...)
		}
		if len(res.Signals) > 0 || res.Held {
			report.Results = append(report.Results, *res)
		}
	}

	report.FinishedAt = time.Now()
	if len(report.Results) == 0 {
		report.Status = model.ScanNoMatches
		report.Message = fmt.Sprintf("Scanned %d tickers, none produced a signal.", report.Scanned)
	} else {
		report.Status = model.ScanOK
		report.Message = fmt.Sprintf("%d of %d tickers produced a signal.", len(report.Results), report.Scanned)
	}
	if s.store != nil {
		s.store.Save(report)
	}
	log.Printf("[INFO] Scan finished in %s: scanned=%d skipped=%d matched=%d alerts=%d",
		time.Since(start).Round(time.Millisecond), report.Scanned, report.Skipped, len(report.Results), len(fired))
	return report, fired
}

// evaluate scores one ticker. A panic inside indicator or rule code is turned into an error.
func (s *Scanner) evaluate(ticker string, bars []model.OHLCV) (res *model.ScoreResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("panic while scoring: %v", r)
		}
	}()

	if need := s.engine.Variant().MinBars; len(bars) < need {
		return nil, fmt.Errorf("%d bars, need %d: %w", len(bars), need, model.ErrInsufficientHistory)
	}
	frame := calculator.BuildFrame(bars, s.opts.Params)
	res, err = s.engine.Evaluate(ticker, frame)
	if err != nil {
		return nil, err
	}
	if s.holdings != nil {
		res.Held = s.holdings.Holds(ticker)
	}
	return res, nil
}

// LatestPrices fetches the most recent close of each ticker. Failed tickers are omitted.
func (s *Scanner) LatestPrices(ctx context.Context, tickers []string) map[string]float64 {
	symbols := make([]string, len(tickers))
	for i, t := range tickers {
		symbols[i] = model.ExchangeSymbol(t)
	}
	batch := collector.FetchAll(ctx, s.fetcher, symbols, "5d", "1d", s.opts.Workers)
	prices := make(map[string]float64, len(batch.Bars))
	for sym, bars := range batch.Bars {
		if len(bars) > 0 {
			prices[model.NormalizeTicker(sym)] = bars[len(bars)-1].Close
		}
	}
	return prices
}

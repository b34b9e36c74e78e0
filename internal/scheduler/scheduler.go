package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"BistSentinel/internal/alert"
	"BistSentinel/internal/collector"
	"BistSentinel/internal/model"
	"BistSentinel/internal/notifier"
	"BistSentinel/internal/portfolio"
	"BistSentinel/internal/recorder"
	"BistSentinel/internal/saver"
	"BistSentinel/internal/scanner"
)

// DefaultTopN is the number of rows included in scan messages.
const DefaultTopN = 10

// ScanListener receives every finished scan, e.g. to push it to websocket clients.
type ScanListener func(report *model.ScanReport, events []model.AlertEvent)

// Scheduler manages cron tasks and serializes scans.
type Scheduler struct {
	Cron      *cron.Cron
	Scanner   *scanner.Scanner
	Alerts    *alert.Deduplicator
	Portfolio *portfolio.Manager
	Market    *collector.MarketService
	Telegram  *notifier.TelegramNotifier
	Sinks     []notifier.AlertSink
	Recorder  recorder.Recorder
	Exporter  *saver.Exporter
	Listeners []ScanListener
	TopN      int
	Ctx       context.Context

	scanMu sync.Mutex
}

// NewScheduler creates a new Scheduler. Telegram may be nil.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, alerts *alert.Deduplicator, pf *portfolio.Manager,
	market *collector.MarketService, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Scanner:   sc,
		Alerts:    alerts,
		Portfolio: pf,
		Market:    market,
		Telegram:  tn,
		Recorder:  rec,
		TopN:      DefaultTopN,
		Ctx:       ctx,
	}
}

// RegisterAll registers the scan and housekeeping tasks.
func (s *Scheduler) RegisterAll(scanCron, housekeepingCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if housekeepingCron != "" {
		if _, err := s.Cron.AddFunc(housekeepingCron, s.housekeeping); err != nil {
			return fmt.Errorf("register housekeeping task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunScan executes one scan and fans the outcome out to alert sinks, the
// recorder, the exporter and listeners. Only one scan runs at a time.
func (s *Scheduler) RunScan(ctx context.Context) (*model.ScanReport, []model.AlertEvent, error) {
	if !s.scanMu.TryLock() {
		return nil, nil, model.ErrScanInProgress
	}
	defer s.scanMu.Unlock()

	report, events := s.Scanner.Scan(ctx)

	notifier.Dispatch(ctx, s.Sinks, events)

	if err := s.Recorder.RecordScan(report); err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}
	for i := range events {
		if err := s.Recorder.RecordAlert(&events[i]); err != nil {
			log.Printf("[ERROR] record alert: %v", err)
		}
	}
	if _, err := s.Exporter.Export(report); err != nil {
		log.Printf("[ERROR] export scan: %v", err)
	}
	for _, l := range s.Listeners {
		l(report, events)
	}
	return report, events, nil
}

func (s *Scheduler) scanTask() {
	log.Println("[INFO] running scheduled scan")
	report, _, err := s.RunScan(s.Ctx)
	if err != nil {
		log.Printf("[WARN] scheduled scan: %v", err)
		return
	}
	s.trySend(notifier.FormatScanReport(*report, s.TopN))
}

// housekeeping clears the recent-alerts log before the session opens.
// Fired keys are kept so a crossover on an old bar never re-alerts.
func (s *Scheduler) housekeeping() {
	if s.Alerts == nil {
		return
	}
	s.Alerts.ClearLog()
	log.Printf("[INFO] alert log cleared, %d keys remembered", s.Alerts.SeenCount())
}

// Valuation marks the portfolio to the last scan prices, fetching any
// held ticker the last scan did not include.
func (s *Scheduler) Valuation(ctx context.Context) model.PortfolioValuation {
	prices := s.Scanner.Store().Prices()
	var missing []string
	for _, t := range s.Portfolio.Tickers() {
		if _, ok := prices[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		for t, p := range s.Scanner.LatestPrices(ctx, missing) {
			prices[t] = p
		}
	}
	return s.Portfolio.Valuate(prices)
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch normalizeCommand(command) {
	case "/scan":
		report, _, err := s.RunScan(ctx)
		if err != nil {
			return "⏳ " + err.Error()
		}
		return notifier.FormatScanReport(*report, s.TopN)
	case "/top":
		return notifier.FormatScanReport(s.Scanner.Store().Last(), s.TopN)
	case "/alerts":
		if s.Alerts == nil {
			return notifier.FormatAlertLog(nil)
		}
		return notifier.FormatAlertLog(s.Alerts.Recent())
	case "/market":
		if s.Market == nil {
			return "Market data is not configured."
		}
		sum, err := s.Market.Summary(ctx)
		if err != nil {
			return fmt.Sprintf("❌ Market data unavailable: %v", err)
		}
		return notifier.FormatMarket(sum)
	case "/portfolio":
		return notifier.FormatPortfolio(s.Valuation(ctx))
	default:
		return notifier.FormatHelp()
	}
}

// normalizeCommand lower-cases the first word and strips a "@botname" suffix.
func normalizeCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd
}

func (s *Scheduler) trySend(text string) {
	if s.Telegram == nil {
		return
	}
	if err := s.Telegram.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

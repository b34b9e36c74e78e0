package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"BistSentinel/internal/alert"
	"BistSentinel/internal/api"
	"BistSentinel/internal/collector"
	"BistSentinel/internal/config"
	"BistSentinel/internal/model"
	"BistSentinel/internal/notifier"
	"BistSentinel/internal/portfolio"
	"BistSentinel/internal/recorder"
	"BistSentinel/internal/saver"
	"BistSentinel/internal/scanner"
	"BistSentinel/internal/scheduler"
	"BistSentinel/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] BistSentinel starting...")

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] load .env: %v", err)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Data source
	var base collector.Fetcher
	switch cfg.DataSource.Provider {
	case "rest":
		base = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		base = &collector.MockFetcher{}
	default:
		base = collector.NewYahooFetcher(cfg.Proxy)
	}
	fetcher := collector.WithRetry(base, cfg.DataSource.Attempts, cfg.DataSource.Backoff)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Scoring pipeline
	engine, err := strategy.NewEngine(strategy.Preset(cfg.Scan.Preset), cfg.Thresholds())
	if err != nil {
		log.Fatalf("[FATAL] init engine: %v", err)
	}
	alerts := alert.NewDeduplicator(cfg.Alerts.LogSize, cfg.AlertKinds(), model.AlertSound(cfg.Alerts.Sound))
	pf := portfolio.NewManager()
	sc := scanner.New(fetcher, engine, alerts, pf, scanner.NewStore(), scanner.Options{
		Tickers:   cfg.Scan.Tickers,
		Timeframe: model.Timeframe(cfg.Scan.Timeframe),
		Params:    cfg.IndicatorParams(),
		Workers:   cfg.DataSource.Workers,
	})
	market := collector.NewMarketService(fetcher, cfg.Market.CacheTTL)

	// Persistence
	rec, err := recorder.New(ctx, cfg.Database.Driver, cfg.Database.SQLitePath, cfg.Database.PostgresURL)
	if err != nil {
		log.Printf("[WARN] init %s recorder failed, using noop: %v", cfg.Database.Driver, err)
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	exporter, err := saver.NewExporter(cfg.Export.Dir, cfg.Export.Format)
	if err != nil {
		log.Fatalf("[FATAL] init exporter: %v", err)
	}

	// Notification channels
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	} else {
		log.Println("[WARN] Telegram not configured, notifications disabled")
	}

	sched := scheduler.NewScheduler(ctx, sc, alerts, pf, market, tn, rec)
	sched.Exporter = exporter
	if tn != nil {
		sched.Sinks = append(sched.Sinks, tn)
	}
	if cfg.FCM.CredentialsFile != "" && len(cfg.FCM.Tokens) > 0 {
		fcm, err := notifier.NewFCMNotifier(ctx, cfg.FCM.CredentialsFile, cfg.FCM.Tokens)
		if err != nil {
			log.Printf("[WARN] init FCM notifier: %v", err)
		} else {
			sched.Sinks = append(sched.Sinks, fcm)
		}
	}

	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.HousekeepingCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}

	// HTTP API and websocket
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewServer(sched).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	sched.Start()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go func() {
			if _, _, err := sched.RunScan(ctx); err != nil {
				log.Printf("[WARN] startup scan: %v", err)
			}
		}()
	}

	log.Println("[INFO] BistSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] BistSentinel stopped")
}

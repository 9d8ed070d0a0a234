package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"BreakoutSentinel/internal/collector"
	"BreakoutSentinel/internal/config"
	"BreakoutSentinel/internal/notifier"
	"BreakoutSentinel/internal/recorder"
	"BreakoutSentinel/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] BreakoutSentinel starting...")

	// Optional .env for local runs; real deployments set env directly.
	_ = godotenv.Load()

	// Load config
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

	// Init universe provider
	var universe collector.UniverseProvider
	if len(cfg.Universe.Tickers) > 0 {
		universe = &collector.StaticUniverse{Tickers: cfg.Universe.Tickers}
	} else {
		universe = collector.NewHTTPUniverse(cfg.Universe.ListingURL, cfg.Proxy, cfg.Universe.Markets)
	}
	log.Printf("[INFO] universe provider: %s", universe.Name())

	// Init collector
	fetcher := collector.NewYahooFetcher(cfg.Proxy, cfg.Fetch.YahooSuffix)
	col := collector.NewCollector(fetcher, cfg.Fetch.Workers,
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second)
	log.Printf("[INFO] data source: %s, %d workers", fetcher.Name(), col.Workers)

	// Init Discord notifier
	dn := notifier.NewDiscordNotifier(cfg.Discord.WebhookURL, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, cfg, universe, col, dn, rec)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.TrainCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}
	if os.Getenv("TRAIN_ON_START") == "true" {
		log.Println("[INFO] TRAIN_ON_START enabled, executing training now")
		go sched.RunTrainNow()
	}

	log.Println("[INFO] BreakoutSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] BreakoutSentinel stopped")
}

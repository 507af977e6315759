package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"SMACrossover/internal/analysis"
	"SMACrossover/internal/collector"
	"SMACrossover/internal/config"
	"SMACrossover/internal/model"
	"SMACrossover/internal/notifier"
	"SMACrossover/internal/scheduler"
	"SMACrossover/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SMA crossover alerts starting...")

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

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	default:
		fetcher = collector.NewAlphaVantageFetcher(cfg.DataSource.APIKey, cfg.DataSource.BaseURL)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init analysis pipeline
	bounds := cfg.Bounds()
	extractor := analysis.NewExtractor(bounds)
	synchronizer := analysis.NewSynchronizer(
		cfg.Analysis.MaxDataAgeDays,
		model.StalenessAction(cfg.Analysis.StalenessAction),
		bounds,
	)
	col := collector.NewCollector(fetcher, extractor, synchronizer,
		cfg.Analysis.SMAPeriod, collector.SMASource(cfg.Analysis.SMASource))

	comparator := strategy.NewComparator(bounds)
	multiEngine := strategy.NewMultiEngine(cfg.Thresholds(), bounds)

	// Init notifiers
	var notifiers []notifier.Notifier
	if len(cfg.Email.To) > 0 {
		notifiers = append(notifiers, notifier.NewEmailNotifier(
			cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.Username, cfg.Email.Password,
			cfg.Email.From, cfg.Email.FromName, cfg.Email.To))
	}
	if cfg.Telegram.BotToken != "" {
		notifiers = append(notifiers, notifier.NewTelegramNotifier(
			cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy))
	}
	for _, n := range notifiers {
		log.Printf("[INFO] notifier enabled: %s", n.Name())
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, comparator, multiEngine, notifiers, scheduler.Options{
		Mode:             cfg.Analysis.Mode,
		Symbol:           cfg.Analysis.Symbol,
		PrimarySymbol:    cfg.Analysis.PrimarySymbol,
		ProtectiveSymbol: cfg.Analysis.ProtectiveSymbol,
		ReferenceSymbol:  cfg.Analysis.ReferenceSymbol,
	})
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing analysis now")
		go sched.RunAnalysis()
	}

	log.Println("[INFO] SMA crossover alerts running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] SMA crossover alerts stopped")
}

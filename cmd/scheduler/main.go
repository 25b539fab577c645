// Command scheduler runs the periodic jobs: due recurring transactions and
// expired limit resets. By default it runs one sweep and exits so that cron
// or a Kubernetes CronJob drives it; -interval keeps it running.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/logger"
	timeProvider "github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/app"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/config"
)

func main() {
	interval := flag.Duration("interval", 0, "repeat the sweep at this interval instead of running once")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to initialize scheduler", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer func() { _ = container.Close() }()

	jobs := newJobs(container.Recurring, container.Limits, tp, appLogger, cfg.Scheduler.JobTimeout)

	if *interval <= 0 {
		if err := jobs.runOnce(ctx); err != nil {
			os.Exit(1)
		}
		return
	}

	appLogger.Info("Scheduler started", map[string]any{"interval": interval.String()})
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		_ = jobs.runOnce(ctx)
		select {
		case <-ctx.Done():
			appLogger.Info("Scheduler stopped", nil)
			return
		case <-ticker.C:
		}
	}
}

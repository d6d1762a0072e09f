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

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/client"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/display"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/scan"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/config"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/journal"
	journalsqlite "github.com/DavidMogrovejo23cm/allpy/scanner/internal/journal/sqlite"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/metrics"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/terminal"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "scanner-terminal ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zone, err := time.LoadLocation(cfg.DisplayZone)
	if err != nil {
		logger.Printf("unknown display zone %q, using UTC: %v", cfg.DisplayZone, err)
		zone = time.UTC
	}

	m := metrics.New()

	api := client.New(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	api.Observe = m.ObserveRemoteCall

	// The loop does not start without a reachable service.
	probeCtx, cancelProbe := context.WithTimeout(ctx, 5*time.Second)
	err = api.Health(probeCtx)
	cancelProbe()
	if err != nil {
		logger.Fatalf("attendance service unreachable at %s: %v", cfg.APIBaseURL, err)
	}
	logger.Printf("attendance service reachable at %s", cfg.APIBaseURL)

	// Optional local scan journal.
	var store journal.Store
	if cfg.DBPath != "" {
		js, err := journalsqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			logger.Fatalf("open journal: %v", err)
		}
		defer js.Close()
		store = js

		pruner := journal.NewPruner(js, journal.PrunerConfig{
			RetentionDays: cfg.JournalRetentionDays,
			IntervalHours: cfg.PruneIntervalHours,
		}, logger)
		pruner.Start(ctx)
		defer pruner.Stop()

		logger.Printf("scan journal at %s", cfg.DBPath)
	}

	if cfg.MetricsAddr != "" {
		msrv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Printf("metrics listening on %s", cfg.MetricsAddr)
			if err := msrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("metrics server error: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = msrv.Shutdown(shutdownCtx)
		}()
	}

	cues := terminal.NewExecPlayer(cfg.SoundDir, cfg.SoundEnabled, logger)
	pipeline := scan.NewPipeline(api, cues, logger, scan.Options{
		Cooldown: cfg.Cooldown,
		Journal:  store,
	})

	loop := terminal.NewLoop(terminal.Dependencies{
		Pipeline:        pipeline,
		Adapter:         display.NewAdapter(zone),
		Source:          terminal.NewLineSource(os.Stdin),
		Renderer:        terminal.NewANSIRenderer(os.Stdout),
		Cues:            cues,
		Logger:          logger,
		DisplayDuration: cfg.DisplayDuration,
	})
	loop.CountScan = m.CountScan

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("scanner loop error: %v", err)
	}
	logger.Printf("scanner closed")
}

// Command tour-probe runs one call against every KorService2 operation and
// prints a JSON report. It exits non-zero when a required step fails.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mytrip_backend/internal/tourapi"
	"mytrip_backend/platform/config"
	"mytrip_backend/platform/logger"

	"github.com/goccy/go-json"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting tour API probe", "base_url", cfg.TourAPIBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := tourapi.NewFromConfig(cfg, log, nil)
	if err != nil {
		log.Error("failed to initialize tour API client", "error", err)
		os.Exit(1)
	}

	rep := run(ctx, client, log)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		log.Error("failed to write report", "error", err)
		os.Exit(1)
	}
	if !rep.Success {
		os.Exit(1)
	}
}

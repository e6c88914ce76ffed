package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/aihr/internal/buildinfo"
	"github.com/dmitrijs2005/aihr/internal/client/cli"
	"github.com/dmitrijs2005/aihr/internal/client/client"
	"github.com/dmitrijs2005/aihr/internal/client/config"
	"github.com/dmitrijs2005/aihr/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer s.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithFields(ctx, "app", "candidate")

	api, err := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewCandidateApp(cfg, api, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error(ctx, "interview aborted", "error", err)
	}
}

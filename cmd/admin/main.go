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
	"github.com/dmitrijs2005/aihr/internal/client/services"
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
	ctx = logging.WithFields(ctx, "app", "admin")

	db, err := client.InitDatabase(ctx, cfg.CacheDSN)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer db.Close()

	api, err := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	dashboard := services.NewDashboardService(api, db, logger)
	archive := services.NewArchiveService(api, services.ArchiveConfig{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
	}, logger)

	app, err := cli.NewAdminApp(cfg, dashboard, archive, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}

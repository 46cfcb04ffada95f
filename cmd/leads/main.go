package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/octobees/leads-manager/internal/client"
	"github.com/octobees/leads-manager/internal/config"
	"github.com/octobees/leads-manager/internal/controller"
	"github.com/octobees/leads-manager/internal/logging"
	"github.com/octobees/leads-manager/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	apiURL := flag.String("api", cfg.Client.APIURL, "base URL of the leads API")
	flag.Parse()

	logger := logging.NewWithWriter(os.Stderr, cfg.App.LogLevel, "text")

	api := client.New(*apiURL,
		client.WithLogger(logger),
		client.WithRequestIDs(cfg.Client.RequestIDs),
	)
	ctrl := controller.New(api, controller.WithLogger(logger))
	app := ui.NewApp(ctrl, api, os.Stdin, os.Stdout,
		ui.WithAppLogger(logger),
		ui.WithBanner(ui.NewBanner(cfg.Client.BannerTTL)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("leads client stopped: %v", err)
	}
}

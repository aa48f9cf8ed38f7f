package main

import (
	"context"
	"log"
	"os"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/logging"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "init failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped with error", "error", err)
		os.Exit(1)
	}
}

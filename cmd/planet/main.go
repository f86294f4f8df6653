// Package main is the entry point for the Beacon Earth desktop globe.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/beacon-earth/internal/app"
	"github.com/Faultbox/beacon-earth/internal/config"
	"github.com/Faultbox/beacon-earth/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Beacon Earth ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to create app", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	runErr := a.Run(ctx)
	a.Close()

	if runErr != nil {
		logger.Error("render error", zap.Error(runErr))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("closed normally")
}

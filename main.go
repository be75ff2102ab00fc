package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"afmdash/internal"
	"afmdash/internal/config"
	"afmdash/internal/container"
	"afmdash/internal/debugserver"
	"afmdash/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, ok := internal.ParseLogLevel(appConfig.LogLevel)
	logger := internal.NewLogger(level)
	if !ok {
		logger.Warn("Unknown LOG_LEVEL %q, using INFO", appConfig.LogLevel)
	}

	if err := run(appConfig, logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(appConfig *config.Config, logger *internal.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(appConfig, logger)
	if err != nil {
		return err
	}
	if err := c.InitWithDatabase(ctx); err != nil {
		return err
	}
	defer func() {
		if err := c.Shutdown(context.Background()); err != nil {
			logger.Warn("Shutdown: %v", err)
		}
	}()

	logger.Info("Streaming curves from %s", appConfig.Backend.WebSocketURL)
	c.Start()

	server := ui.NewServer(ui.Deps{
		Store:      c.Store,
		Session:    c.Controller,
		Events:     c.SSEHub.HandleSSE,
		Imports:    c.Imports,
		Exports:    c.Exports,
		Parameters: c.Parameters,
		Presets:    c.Presets,
	}, appConfig.Server.GinMode, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, ":"+appConfig.Server.Port)
	})
	if appConfig.Profiling.Enabled {
		g.Go(func() error {
			return debugserver.New(appConfig.Profiling.Port, c.Controller, logger).Run(gctx)
		})
	}

	err = g.Wait()
	logger.Info("Stopped")
	return err
}

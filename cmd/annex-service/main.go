// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/annex/lib/annex"
	"github.com/bureau-foundation/annex/lib/clock"
	"github.com/bureau-foundation/annex/lib/config"
	"github.com/bureau-foundation/annex/lib/process"
	"github.com/bureau-foundation/annex/lib/service"
	"github.com/bureau-foundation/annex/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to annex.yaml (default: $ANNEX_CONFIG)")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		version.Print("annex-service")
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := service.NewLogger(level)

	annexService, err := annex.New(cfg, clock.Real(), logger)
	if err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	httpServer := service.NewHTTPServer(service.HTTPServerConfig{
		Address:  cfg.Address(),
		Handler:  NewHandler(annexService, cfg.Server.AllowedOrigins, logger),
		Timeouts: service.Timeouts{Shutdown: cfg.ShutdownTimeout()},
		Logger:   logger,
	})

	err = serve(context.Background(), httpServer, signals, logger,
		"source_root", cfg.Paths.SourceRoot,
		"destination_base", cfg.Paths.DestinationBase,
		"environment", cfg.Environment,
		"version", version.Info(),
	)
	if err != nil {
		return err
	}
	logger.Info("shutting down")
	return nil
}

// errSignalled ends the serve group when a shutdown signal arrives.
var errSignalled = errors.New("shutdown signal received")

// serve runs the HTTP server, the signal watcher, and the readiness
// announcement as one group. The first signal cancels the group and
// the server drains. readyAttrs are logged once the listener is bound.
func serve(ctx context.Context, httpServer *service.HTTPServer, signals <-chan os.Signal, logger *slog.Logger, readyAttrs ...any) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return httpServer.Serve(groupCtx)
	})
	group.Go(func() error {
		select {
		case received := <-signals:
			logger.Info("shutdown signal received", "signal", received.String())
			return errSignalled
		case <-groupCtx.Done():
			return nil
		}
	})
	group.Go(func() error {
		select {
		case <-httpServer.Ready():
			attrs := append([]any{"address", httpServer.Addr().String()}, readyAttrs...)
			logger.Info("annex service running", attrs...)
		case <-groupCtx.Done():
		}
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, errSignalled) {
		return err
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

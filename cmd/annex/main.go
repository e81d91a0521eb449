// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Annex packages hash-log files into tamper-evident archives and
// verifies them later, either directly against the local filesystem
// or through a running annex-service (--server).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/annex/lib/clock"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	app := &application{stdout: os.Stdout, clock: clock.Real()}
	err := app.rootCommand().Execute(ctx, os.Args[1:], os.Stderr)
	stop()

	if err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

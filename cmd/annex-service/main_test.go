// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/bureau-foundation/annex/lib/service"
	"github.com/bureau-foundation/annex/lib/testutil"
)

func TestServeStopsOnSignal(t *testing.T) {
	logger := testutil.DiscardLogger()
	httpServer := service.NewHTTPServer(service.HTTPServerConfig{
		Address:  "127.0.0.1:0",
		Handler:  http.NotFoundHandler(),
		Timeouts: service.Timeouts{Shutdown: 2 * time.Second},
		Logger:   logger,
	})

	signals := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() {
		done <- serve(context.Background(), httpServer, signals, logger, "environment", "test")
	}()
	testutil.RequireClosed(t, httpServer.Ready(), 5*time.Second, "listener bound")

	response, err := http.Get("http://" + httpServer.Addr().String() + "/anything")
	if err != nil {
		t.Fatalf("GET before signal: %v", err)
	}
	response.Body.Close()

	signals <- syscall.SIGTERM
	if err := testutil.RequireReceive(t, done, 5*time.Second, "serve after SIGTERM"); err != nil {
		t.Errorf("serve() = %v, want nil after a signal", err)
	}
}

func TestServeReturnsListenError(t *testing.T) {
	logger := testutil.DiscardLogger()
	httpServer := service.NewHTTPServer(service.HTTPServerConfig{
		Address: "256.0.0.1:0",
		Handler: http.NotFoundHandler(),
		Logger:  logger,
	})

	done := make(chan error, 1)
	go func() {
		done <- serve(context.Background(), httpServer, make(chan os.Signal), logger)
	}()
	if err := testutil.RequireReceive(t, done, 5*time.Second, "serve on a bad address"); err == nil {
		t.Error("serve() on an invalid address = nil, want error")
	}
}

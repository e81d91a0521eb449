// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Timeouts bounds each phase of an HTTP exchange. Zero fields take
// the value from [DefaultTimeouts].
type Timeouts struct {
	// ReadHeader bounds reading the request line and headers.
	ReadHeader time.Duration

	// Read bounds reading the whole request. Annex request bodies
	// are a single JSON object carrying a logical path.
	Read time.Duration

	// Write bounds producing the response. Packaging hashes every
	// eligible file of a folder before it answers, so this is the
	// long one.
	Write time.Duration

	// Idle bounds keep-alive connections between requests.
	Idle time.Duration

	// Shutdown bounds the drain of in-flight requests after the
	// serve context is cancelled.
	Shutdown time.Duration
}

// DefaultTimeouts returns the timeouts used for zero fields.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		ReadHeader: 10 * time.Second,
		Read:       30 * time.Second,
		Write:      5 * time.Minute,
		Idle:       60 * time.Second,
		Shutdown:   10 * time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	defaults := DefaultTimeouts()
	pick := func(value, fallback time.Duration) time.Duration {
		if value > 0 {
			return value
		}
		return fallback
	}
	return Timeouts{
		ReadHeader: pick(t.ReadHeader, defaults.ReadHeader),
		Read:       pick(t.Read, defaults.Read),
		Write:      pick(t.Write, defaults.Write),
		Idle:       pick(t.Idle, defaults.Idle),
		Shutdown:   pick(t.Shutdown, defaults.Shutdown),
	}
}

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	// Address is the TCP listen address, e.g. "0.0.0.0:3001".
	// Port 0 asks the kernel for a free port. Required.
	Address string

	// Handler serves every request. Routing and CORS live in the
	// handler. Required.
	Handler http.Handler

	// Timeouts for the underlying http.Server.
	Timeouts Timeouts

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// HTTPServer binds a TCP listener for an annex handler and shuts it
// down gracefully when the serve context ends.
type HTTPServer struct {
	address  string
	handler  http.Handler
	timeouts Timeouts
	logger   *slog.Logger

	// bound is closed once listener is set.
	bound    chan struct{}
	listener net.Listener
}

// NewHTTPServer validates config and returns an unstarted server.
// Missing required fields are programming errors and panic.
func NewHTTPServer(config HTTPServerConfig) *HTTPServer {
	switch {
	case config.Address == "":
		panic("service.HTTPServer: Address is required")
	case config.Handler == nil:
		panic("service.HTTPServer: Handler is required")
	case config.Logger == nil:
		panic("service.HTTPServer: Logger is required")
	}
	return &HTTPServer{
		address:  config.Address,
		handler:  config.Handler,
		timeouts: config.Timeouts.withDefaults(),
		logger:   config.Logger,
		bound:    make(chan struct{}),
	}
}

// Ready is closed once the listener is bound.
func (s *HTTPServer) Ready() <-chan struct{} {
	return s.bound
}

// Addr is the bound address, with the real port when the configured
// port was 0. Valid after Ready is closed.
func (s *HTTPServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve listens and serves until ctx is cancelled, then drains
// in-flight requests for at most the shutdown timeout. It returns nil
// after a clean drain.
func (s *HTTPServer) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.address, err)
	}
	s.listener = listener
	close(s.bound)

	server := s.newServer()
	s.logger.Info("http server listening", "address", listener.Addr().String())

	failed := make(chan error, 1)
	go func() {
		err := server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		failed <- err
	}()

	select {
	case err := <-failed:
		return err
	case <-ctx.Done():
	}
	return s.drain(server)
}

func (s *HTTPServer) newServer() *http.Server {
	return &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.timeouts.ReadHeader,
		ReadTimeout:       s.timeouts.Read,
		WriteTimeout:      s.timeouts.Write,
		IdleTimeout:       s.timeouts.Idle,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
}

func (s *HTTPServer) drain(server *http.Server) error {
	s.logger.Info("http server draining", "timeout", s.timeouts.Shutdown.String())
	ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.Shutdown)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		s.logger.Error("http server drain failed", "error", err)
		return fmt.Errorf("draining http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/annex/lib/testutil"
)

func TestHTTPServerServesUntilCancelled(t *testing.T) {
	server := NewHTTPServer(HTTPServerConfig{
		Address: "127.0.0.1:0",
		Handler: http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			io.WriteString(writer, "annex "+request.URL.Path)
		}),
		Timeouts: Timeouts{Shutdown: 2 * time.Second},
		Logger:   testutil.DiscardLogger(),
	})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(ctx)
	}()
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "listener bound")

	response, err := http.Get("http://" + server.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ := io.ReadAll(response.Body)
	response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", response.StatusCode)
	}
	if string(body) != "annex /healthz" {
		t.Errorf("body = %q, want %q", body, "annex /healthz")
	}

	cancel()
	if err := testutil.RequireReceive(t, serveDone, 5*time.Second, "server drain"); err != nil {
		t.Errorf("Serve() = %v, want nil", err)
	}
}

func TestHTTPServerListenError(t *testing.T) {
	server := NewHTTPServer(HTTPServerConfig{
		Address: "256.0.0.1:0",
		Handler: http.NotFoundHandler(),
		Logger:  testutil.DiscardLogger(),
	})
	if err := server.Serve(t.Context()); err == nil {
		t.Fatal("Serve() on an invalid address = nil, want error")
	}
}

func TestTimeoutsWithDefaults(t *testing.T) {
	defaults := DefaultTimeouts()
	tests := []struct {
		name  string
		input Timeouts
		want  Timeouts
	}{
		{name: "zero", input: Timeouts{}, want: defaults},
		{
			name:  "shutdown_only",
			input: Timeouts{Shutdown: 3 * time.Second},
			want: Timeouts{
				ReadHeader: defaults.ReadHeader,
				Read:       defaults.Read,
				Write:      defaults.Write,
				Idle:       defaults.Idle,
				Shutdown:   3 * time.Second,
			},
		},
		{
			name:  "negative_falls_back",
			input: Timeouts{Write: -time.Second},
			want:  defaults,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.input.withDefaults()); diff != "" {
				t.Errorf("withDefaults() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewHTTPServerRequiresFields(t *testing.T) {
	logger := testutil.DiscardLogger()
	handler := http.NotFoundHandler()
	tests := []struct {
		name   string
		config HTTPServerConfig
	}{
		{"missing_address", HTTPServerConfig{Handler: handler, Logger: logger}},
		{"missing_handler", HTTPServerConfig{Address: ":0", Logger: logger}},
		{"missing_logger", HTTPServerConfig{Address: ":0", Handler: handler}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("NewHTTPServer did not panic")
				}
			}()
			NewHTTPServer(tt.config)
		})
	}
}

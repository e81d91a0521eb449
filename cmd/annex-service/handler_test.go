// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/annex/lib/annex"
	"github.com/bureau-foundation/annex/lib/archive"
	"github.com/bureau-foundation/annex/lib/clock"
	"github.com/bureau-foundation/annex/lib/codec"
	"github.com/bureau-foundation/annex/lib/config"
	"github.com/bureau-foundation/annex/lib/listing"
	"github.com/bureau-foundation/annex/lib/manifest"
	"github.com/bureau-foundation/annex/lib/procid"
	"github.com/bureau-foundation/annex/lib/testutil"
	"github.com/bureau-foundation/annex/lib/version"
)

type testEnvironment struct {
	sourceRoot string
	handler    http.Handler
}

func newTestEnvironment(t *testing.T) *testEnvironment {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceRoot = filepath.Join(base, "cases")
	cfg.Paths.DestinationBase = filepath.Join(base, "archives")
	if err := os.MkdirAll(cfg.Paths.SourceRoot, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	logger := testutil.DiscardLogger()
	fake := clock.Fake(time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC))
	service, err := annex.New(cfg, fake, logger)
	if err != nil {
		t.Fatalf("annex.New: %v", err)
	}
	return &testEnvironment{
		sourceRoot: cfg.Paths.SourceRoot,
		handler:    NewHandler(service, cfg.Server.AllowedOrigins, logger),
	}
}

func (env *testEnvironment) writeFile(t *testing.T, logicalPath, content string) {
	t.Helper()
	testutil.WriteFile(t, env.sourceRoot, logicalPath, content)
}

func (env *testEnvironment) do(t *testing.T, request *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	env.handler.ServeHTTP(recorder, request)
	return recorder
}

func (env *testEnvironment) get(t *testing.T, path, logicalPath string) *httptest.ResponseRecorder {
	t.Helper()
	target := path
	if logicalPath != "" {
		target += "?path=" + strings.ReplaceAll(logicalPath, " ", "%20")
	}
	return env.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (env *testEnvironment) post(t *testing.T, logicalPath string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"path":%q}`, logicalPath)
	request := httptest.NewRequest(http.MethodPost, "/api/archives", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	return env.do(t, request)
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(recorder.Body.Bytes(), &value); err != nil {
		t.Fatalf("decoding %q: %v", recorder.Body.String(), err)
	}
	return value
}

func TestPackageThenRootHash(t *testing.T) {
	env := newTestEnvironment(t)
	env.writeFile(t, "2024.1234567-case/auto1/hashlog.001", "A")
	env.writeFile(t, "2024.1234567-case/auto1/Lista de Arquivos.csv", "B")

	packaged := env.post(t, "2024.1234567-case/auto1")
	if packaged.Code != http.StatusOK {
		t.Fatalf("POST /api/archives = %d: %s", packaged.Code, packaged.Body)
	}
	result := decode[packageResponse](t, packaged)
	if !result.Success || result.ProcessID != "2024.1234567-case" || result.Year != "2025" {
		t.Errorf("package response = %+v", result)
	}
	if filepath.Base(result.Location) != "anexo-laudo-auto1.zip" {
		t.Errorf("location = %s", result.Location)
	}
	if !manifest.IsDigest(result.RootHash) {
		t.Errorf("rootHash %q is not a digest", result.RootHash)
	}

	verified := env.get(t, "/api/root-hash", "2024.1234567-case/auto1")
	if verified.Code != http.StatusOK {
		t.Fatalf("GET /api/root-hash = %d: %s", verified.Code, verified.Body)
	}
	verification := decode[annex.Verification](t, verified)
	if verification.RootHash != result.RootHash {
		t.Errorf("verified %s, packaged %s", verification.RootHash, result.RootHash)
	}
	if verification.Location != result.Location || verification.ArchiveDigest != result.ArchiveDigest {
		t.Errorf("verification = %+v", verification)
	}

	audited := env.get(t, "/api/audit", "2024.1234567-case/auto1")
	if audited.Code != http.StatusOK {
		t.Fatalf("GET /api/audit = %d: %s", audited.Code, audited.Body)
	}
	if audit := decode[annex.AuditResult](t, audited); !audit.OK {
		t.Errorf("audit failed: %+v", audit.Report)
	}
}

func TestRootHashCBOR(t *testing.T) {
	env := newTestEnvironment(t)
	env.writeFile(t, "2024.1234567/hashlog.1", "x")
	if response := env.post(t, "2024.1234567"); response.Code != http.StatusOK {
		t.Fatalf("package = %d: %s", response.Code, response.Body)
	}

	request := httptest.NewRequest(http.MethodGet, "/api/root-hash?path=2024.1234567", nil)
	request.Header.Set("Accept", "application/cbor;q=1, application/json;q=0.5")
	response := env.do(t, request)
	if response.Code != http.StatusOK {
		t.Fatalf("GET /api/root-hash = %d", response.Code)
	}
	if contentType := response.Header().Get("Content-Type"); contentType != codec.ContentType {
		t.Fatalf("Content-Type = %q, want %q", contentType, codec.ContentType)
	}
	var verification annex.Verification
	if err := codec.Unmarshal(response.Body.Bytes(), &verification); err != nil {
		t.Fatalf("decoding CBOR: %v", err)
	}
	if verification.Source != archive.SourceRecomputed || verification.Year != "2025" {
		t.Errorf("verification = %+v", verification)
	}
}

func TestErrorStatuses(t *testing.T) {
	env := newTestEnvironment(t)
	env.writeFile(t, "2024.1234567/vazio/laudo.pdf", "not eligible")
	env.writeFile(t, "sem-processo/hashlog.1", "x")

	tests := []struct {
		name     string
		response func() *httptest.ResponseRecorder
		status   int
	}{
		{"listing escape", func() *httptest.ResponseRecorder { return env.get(t, "/api/folders", "../..") }, http.StatusForbidden},
		{"listing missing", func() *httptest.ResponseRecorder { return env.get(t, "/api/folders", "ausente") }, http.StatusNotFound},
		{"package empty", func() *httptest.ResponseRecorder { return env.post(t, "2024.1234567/vazio") }, http.StatusBadRequest},
		{"package without process", func() *httptest.ResponseRecorder { return env.post(t, "sem-processo") }, http.StatusBadRequest},
		{"package escape", func() *httptest.ResponseRecorder { return env.post(t, "../../etc") }, http.StatusForbidden},
		{"root hash missing", func() *httptest.ResponseRecorder { return env.get(t, "/api/root-hash", "2024.1234567/vazio") }, http.StatusNotFound},
		{"audit missing", func() *httptest.ResponseRecorder { return env.get(t, "/api/audit", "2024.1234567") }, http.StatusNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := test.response()
			if response.Code != test.status {
				t.Fatalf("status = %d, want %d: %s", response.Code, test.status, response.Body)
			}
			if body := decode[errorResponse](t, response); body.Error == "" {
				t.Error("error response has an empty message")
			}
		})
	}
}

func TestPackageRejectsBadBody(t *testing.T) {
	env := newTestEnvironment(t)

	request := httptest.NewRequest(http.MethodPost, "/api/archives", strings.NewReader("{not json"))
	response := env.do(t, request)
	if response.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", response.Code)
	}
}

func TestArchiveStatus(t *testing.T) {
	env := newTestEnvironment(t)
	env.writeFile(t, "2024.1234567/laudo/hashlog.1", "x")

	status := func(logicalPath string) archive.ProbeResult {
		t.Helper()
		response := env.get(t, "/api/archive-status", logicalPath)
		if response.Code != http.StatusOK {
			t.Fatalf("GET /api/archive-status = %d: %s", response.Code, response.Body)
		}
		return decode[archive.ProbeResult](t, response)
	}

	if got := status("sem-processo"); got.Status != archive.ProbeInvalid {
		t.Errorf("status = %s, want invalid", got.Status)
	}
	if got := status("2024.1234567/laudo"); got.Status != archive.ProbeEmpty {
		t.Errorf("status = %s, want empty", got.Status)
	}
	if response := env.post(t, "2024.1234567/laudo"); response.Code != http.StatusOK {
		t.Fatalf("package = %d: %s", response.Code, response.Body)
	}
	want := archive.ProbeResult{Status: archive.ProbeHasZip, ArchiveName: "anexo-laudo-laudo.zip", Year: "2025"}
	if diff := cmp.Diff(want, status("2024.1234567/laudo")); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestFolders(t *testing.T) {
	env := newTestEnvironment(t)
	env.writeFile(t, "2024.1234567/laudo/hashlog.1", "x")
	env.writeFile(t, "leia-me.txt", "y")

	response := env.get(t, "/api/folders", "")
	if response.Code != http.StatusOK {
		t.Fatalf("GET /api/folders = %d: %s", response.Code, response.Body)
	}
	want := []listing.Entry{
		{Name: "2024.1234567", IsDirectory: true, RelativePath: "2024.1234567"},
		{Name: "leia-me.txt", RelativePath: "leia-me.txt"},
	}
	if diff := cmp.Diff(want, decode[[]listing.Entry](t, response)); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	env := newTestEnvironment(t)

	response := env.get(t, "/healthz", "")
	if response.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d", response.Code)
	}
	health := decode[healthResponse](t, response)
	if health.Status != "ok" {
		t.Errorf("health = %+v", health)
	}
	if diff := cmp.Diff(version.Current(), health.Version); diff != "" {
		t.Errorf("health version mismatch (-want +got):\n%s", diff)
	}
	if response.Header().Get(requestIDHeader) == "" {
		t.Error("response has no request ID")
	}

	const incoming = "6f1c1f0e-2b8a-4d39-9d8c-0d3c9a1b7e55"
	request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	request.Header.Set(requestIDHeader, incoming)
	if got := env.do(t, request).Header().Get(requestIDHeader); got != incoming {
		t.Errorf("request ID = %q, want the caller's %q", got, incoming)
	}

	request = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	request.Header.Set(requestIDHeader, "not-a-uuid")
	if got := env.do(t, request).Header().Get(requestIDHeader); got == "not-a-uuid" {
		t.Error("a malformed request ID was echoed back")
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnvironment(t)

	preflight := func(requestHeaders string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodOptions, "/api/archives", nil)
		request.Header.Set("Origin", "http://frontend.local")
		request.Header.Set("Access-Control-Request-Method", http.MethodPost)
		// Browsers send the requested header names lowercased.
		request.Header.Set("Access-Control-Request-Headers", requestHeaders)
		return env.do(t, request)
	}

	response := preflight("content-type")
	if got := response.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := response.Header().Get("Access-Control-Allow-Headers"); !strings.EqualFold(got, "content-type") {
		t.Errorf("Access-Control-Allow-Headers = %q, want content-type", got)
	}
	if got := response.Header().Get("Access-Control-Allow-Methods"); got != http.MethodPost {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST", got)
	}

	rejected := preflight("x-unlisted")
	if got := rejected.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("preflight with an unlisted header got Access-Control-Allow-Origin = %q, want none", got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"outside root", fmt.Errorf("x: %w", listing.ErrOutsideRoot), http.StatusForbidden},
		{"no process", &procid.ResolutionError{Path: "a/b"}, http.StatusBadRequest},
		{"empty manifest", fmt.Errorf("/x: %w", manifest.ErrEmptyManifest), http.StatusBadRequest},
		{"reserved member", &archive.WriteError{Path: "/x", Op: "naming members", Err: archive.ErrReservedMember}, http.StatusBadRequest},
		{"archive missing", &archive.LocateError{Reason: archive.ReasonNotFound}, http.StatusNotFound},
		{"folder missing", &manifest.ScanError{Directory: "/x", Err: fs.ErrNotExist}, http.StatusNotFound},
		{"write failure", &archive.WriteError{Path: "/x", Op: "syncing archive", Err: errors.New("EIO")}, http.StatusInternalServerError},
		{"manifest missing", archive.ErrManifestMissing, http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := statusFor(test.err); got != test.want {
				t.Errorf("statusFor(%v) = %d, want %d", test.err, got, test.want)
			}
		})
	}
}

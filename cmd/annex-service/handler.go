// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/bureau-foundation/annex/lib/annex"
	"github.com/bureau-foundation/annex/lib/archive"
	"github.com/bureau-foundation/annex/lib/codec"
	"github.com/bureau-foundation/annex/lib/listing"
	"github.com/bureau-foundation/annex/lib/manifest"
	"github.com/bureau-foundation/annex/lib/procid"
	"github.com/bureau-foundation/annex/lib/version"
)

// maxRequestBodySize bounds POST bodies. The only body the API accepts
// is {"path": "..."}.
const maxRequestBodySize = 64 * 1024

// Handler routes API requests to an annex.Service.
type Handler struct {
	service *annex.Service
	logger  *slog.Logger
}

// NewHandler returns the complete HTTP handler: request logging, CORS
// for allowedOrigins, and the API routes. Panics if service or logger
// is nil.
func NewHandler(service *annex.Service, allowedOrigins []string, logger *slog.Logger) http.Handler {
	if service == nil {
		panic("annex-service: service is required")
	}
	if logger == nil {
		panic("annex-service: logger is required")
	}
	handler := &Handler{service: service, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/folders", handler.handleFolders)
	mux.HandleFunc("POST /api/archives", handler.handlePackage)
	mux.HandleFunc("GET /api/root-hash", handler.handleRootHash)
	mux.HandleFunc("GET /api/archive-status", handler.handleArchiveStatus)
	mux.HandleFunc("GET /api/audit", handler.handleAudit)
	mux.HandleFunc("GET /healthz", handler.handleHealth)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
	})
	return withRequestLog(corsHandler.Handler(mux), logger)
}

// packageResponse is the wire format for POST /api/archives.
type packageResponse struct {
	Success       bool   `json:"success"`
	Location      string `json:"location"`
	RootHash      string `json:"rootHash"`
	ProcessID     string `json:"processIdentifier"`
	ArchiveDigest string `json:"archiveDigest"`
	Year          string `json:"year"`
	Files         int    `json:"files"`
	Size          int64  `json:"size"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Version version.Build `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleFolders(writer http.ResponseWriter, request *http.Request) {
	entries, err := h.service.List(request.URL.Query().Get("path"))
	if err != nil {
		h.writeError(writer, request, err)
		return
	}
	h.writeResponse(writer, request, http.StatusOK, entries)
}

func (h *Handler) handlePackage(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxRequestBodySize))
	if err := decoder.Decode(&body); err != nil {
		h.writeResponse(writer, request, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	record, err := h.service.Package(request.Context(), body.Path)
	if err != nil {
		h.writeError(writer, request, err)
		return
	}
	h.writeResponse(writer, request, http.StatusOK, packageResponse{
		Success:       true,
		Location:      record.Path,
		RootHash:      record.RootHash,
		ProcessID:     record.ProcessID,
		ArchiveDigest: record.ArchiveDigest,
		Year:          record.Year,
		Files:         record.Files,
		Size:          record.Size,
	})
}

func (h *Handler) handleRootHash(writer http.ResponseWriter, request *http.Request) {
	verification, err := h.service.RootHash(request.Context(), request.URL.Query().Get("path"))
	if err != nil {
		h.writeError(writer, request, err)
		return
	}
	h.writeResponse(writer, request, http.StatusOK, verification)
}

func (h *Handler) handleArchiveStatus(writer http.ResponseWriter, request *http.Request) {
	result, err := h.service.Probe(request.URL.Query().Get("path"))
	if err != nil {
		h.writeError(writer, request, err)
		return
	}
	h.writeResponse(writer, request, http.StatusOK, result)
}

func (h *Handler) handleAudit(writer http.ResponseWriter, request *http.Request) {
	result, err := h.service.Audit(request.Context(), request.URL.Query().Get("path"))
	if err != nil {
		h.writeError(writer, request, err)
		return
	}
	h.writeResponse(writer, request, http.StatusOK, result)
}

func (h *Handler) handleHealth(writer http.ResponseWriter, request *http.Request) {
	h.writeResponse(writer, request, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: version.Current(),
	})
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	var resolution *procid.ResolutionError
	switch {
	case errors.Is(err, listing.ErrOutsideRoot):
		return http.StatusForbidden
	case errors.As(err, &resolution), errors.Is(err, manifest.ErrEmptyManifest),
		errors.Is(err, archive.ErrReservedMember):
		return http.StatusBadRequest
	case errors.Is(err, archive.ErrArchiveNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(writer http.ResponseWriter, request *http.Request, err error) {
	status := statusFor(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(request.Context(), level, "request failed",
		"request_id", requestID(request.Context()),
		"path", request.URL.Query().Get("path"),
		"status", status,
		"error", err,
	)
	h.writeResponse(writer, request, status, errorResponse{Error: err.Error()})
}

// writeResponse encodes value as CBOR when the request accepts it and
// as JSON otherwise.
func (h *Handler) writeResponse(writer http.ResponseWriter, request *http.Request, status int, value any) {
	if acceptsCBOR(request) {
		data, err := codec.Marshal(value)
		if err != nil {
			h.logger.Error("encoding CBOR response", "error", err)
			http.Error(writer, "", http.StatusInternalServerError)
			return
		}
		writer.Header().Set("Content-Type", codec.ContentType)
		writer.WriteHeader(status)
		writer.Write(data)
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		h.logger.Error("encoding JSON response", "error", err)
		http.Error(writer, "", http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	writer.Write(append(data, '\n'))
}

func acceptsCBOR(request *http.Request) bool {
	for _, accepted := range strings.Split(request.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(accepted), ";")
		if mediaType == codec.ContentType {
			return true
		}
	}
	return false
}

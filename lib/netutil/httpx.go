// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O utilities for Annex clients.
//
// Response helpers (ReadResponse, DecodeResponse, DecodeCBORResponse,
// ErrorBody, ErrorMessage) bound all body reads at MaxResponseSize so
// a misbehaving server cannot exhaust client memory. Annex API
// responses are small JSON or CBOR documents; archives themselves are
// never transferred over HTTP.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bureau-foundation/annex/lib/codec"
)

// MaxResponseSize is the bound on API response body reads: 64 MB. A
// folder listing of a very wide directory is the largest legitimate
// response and stays far below it.
const MaxResponseSize int64 = 64 << 20

// ReadResponse reads an API response body up to MaxResponseSize bytes.
// Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads a JSON response body (up to MaxResponseSize
// bytes) and JSON-decodes it into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// DecodeCBORResponse is DecodeResponse for CBOR bodies.
func DecodeCBORResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return codec.Unmarshal(data, v)
}

// ErrorBody reads an HTTP error response body and returns it as a string for
// diagnostic error messages. Read errors are silently ignored: a partial or
// empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := ReadResponse(body)
	return string(data)
}

// ErrorMessage reads an error response and returns the message from an
// {"error": "..."} body, in JSON or CBOR as contentType says. Bodies
// that do not have that shape are returned verbatim, trimmed.
func ErrorMessage(body io.Reader, contentType string) string {
	data, _ := ReadResponse(body)

	var envelope struct {
		Error string `json:"error"`
	}
	var err error
	if strings.HasPrefix(contentType, codec.ContentType) {
		err = codec.Unmarshal(data, &envelope)
	} else {
		err = json.Unmarshal(data, &envelope)
	}
	if err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return strings.TrimSpace(string(data))
}

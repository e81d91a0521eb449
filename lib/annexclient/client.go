// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package annexclient provides a typed HTTP client for the Annex
// service API. The annex CLI uses it in --server mode to package and
// verify folders on a remote machine.
//
// The client mirrors the service's wire format using its own response
// types, avoiding an import dependency from client code back into the
// service implementation. Responses are requested as JSON by default;
// a client built with [WithCBOR] asks for CBOR instead.
package annexclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bureau-foundation/annex/lib/codec"
	"github.com/bureau-foundation/annex/lib/netutil"
	"github.com/bureau-foundation/annex/lib/version"
)

// ErrNotFound matches an APIError with status 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the service.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Operation, e.StatusCode, e.Message)
}

// Is makes 404 responses match ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client is a typed HTTP client for the Annex service.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cbor       bool
}

// Option configures a Client.
type Option func(*Client)

// WithCBOR requests CBOR response bodies.
func WithCBOR() Option {
	return func(client *Client) { client.cbor = true }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.httpClient = httpClient }
}

// New creates a Client for the service at baseURL, for example
// "http://laudos.internal:3001".
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("server URL %q must use http or https", baseURL)
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	client := &Client{
		httpClient: http.DefaultClient,
		baseURL:    parsed,
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// HealthResponse is the wire format for GET /healthz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Version version.Build `json:"version"`
}

// FolderEntry is one element of the GET /api/folders response.
type FolderEntry struct {
	Name         string `json:"name"`
	IsDirectory  bool   `json:"isDirectory"`
	RelativePath string `json:"relativePath"`
}

// PackageResponse is the wire format for POST /api/archives.
type PackageResponse struct {
	Success       bool   `json:"success"`
	Location      string `json:"location"`
	RootHash      string `json:"rootHash"`
	ProcessID     string `json:"processIdentifier"`
	ArchiveDigest string `json:"archiveDigest"`
	Year          string `json:"year"`
	Files         int    `json:"files"`
	Size          int64  `json:"size"`
}

// RootHashResponse is the wire format for GET /api/root-hash.
type RootHashResponse struct {
	RootHash      string `json:"rootHash"`
	Source        string `json:"source"`
	Location      string `json:"location"`
	Year          string `json:"year"`
	ProcessID     string `json:"processIdentifier"`
	ArchiveName   string `json:"archiveName"`
	ArchiveDigest string `json:"archiveDigest"`
}

// ArchiveStatusResponse is the wire format for GET /api/archive-status.
type ArchiveStatusResponse struct {
	Status      string `json:"status"`
	ArchiveName string `json:"archiveName,omitempty"`
	Year        string `json:"year,omitempty"`
}

// AuditResponse is the wire format for GET /api/audit.
type AuditResponse struct {
	Location ArchiveLocation `json:"location"`
	OK       bool            `json:"ok"`
	Report   AuditReport     `json:"report"`
}

// ArchiveLocation identifies an archive on the service's disk.
type ArchiveLocation struct {
	Path      string `json:"path"`
	Year      string `json:"year"`
	ProcessID string `json:"processIdentifier"`
	Name      string `json:"name"`
}

// AuditReport compares every archive member with its manifest line.
type AuditReport struct {
	RootHash       string        `json:"rootHash"`
	StoredRootHash string        `json:"storedRootHash,omitempty"`
	Members        []MemberCheck `json:"members"`
	Missing        []string      `json:"missing,omitempty"`
	Unlisted       []string      `json:"unlisted,omitempty"`
}

// MemberCheck is one audited archive member.
type MemberCheck struct {
	Member   string `json:"member"`
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Match    bool   `json:"match"`
}

// Health checks that the service is up.
func (client *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := client.call(ctx, "health", http.MethodGet, "/healthz", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns the immediate children of the folder at logicalPath.
func (client *Client) List(ctx context.Context, logicalPath string) ([]FolderEntry, error) {
	var result []FolderEntry
	if err := client.call(ctx, "list", http.MethodGet, "/api/folders", pathQuery(logicalPath), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Package asks the service to package the folder at logicalPath.
func (client *Client) Package(ctx context.Context, logicalPath string) (*PackageResponse, error) {
	body := struct {
		Path string `json:"path"`
	}{Path: logicalPath}

	var result PackageResponse
	if err := client.call(ctx, "package", http.MethodPost, "/api/archives", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RootHash returns the root hash of the newest archive for logicalPath.
func (client *Client) RootHash(ctx context.Context, logicalPath string) (*RootHashResponse, error) {
	var result RootHashResponse
	if err := client.call(ctx, "root hash", http.MethodGet, "/api/root-hash", pathQuery(logicalPath), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ArchiveStatus reports whether an archive exists for logicalPath.
func (client *Client) ArchiveStatus(ctx context.Context, logicalPath string) (*ArchiveStatusResponse, error) {
	var result ArchiveStatusResponse
	if err := client.call(ctx, "archive status", http.MethodGet, "/api/archive-status", pathQuery(logicalPath), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Audit re-hashes every member of the newest archive for logicalPath.
func (client *Client) Audit(ctx context.Context, logicalPath string) (*AuditResponse, error) {
	var result AuditResponse
	if err := client.call(ctx, "audit", http.MethodGet, "/api/audit", pathQuery(logicalPath), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func pathQuery(logicalPath string) url.Values {
	return url.Values{"path": {logicalPath}}
}

// call performs one request. body, when non-nil, is sent as JSON;
// the response is decoded into result according to its Content-Type.
func (client *Client) call(ctx context.Context, operation, method, path string, query url.Values, body, result any) error {
	endpoint := *client.baseURL
	endpoint.Path += path
	endpoint.RawQuery = query.Encode()

	var requestBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request body: %w", operation, err)
		}
		requestBody = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint.String(), requestBody)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if client.cbor {
		request.Header.Set("Accept", codec.ContentType)
	} else {
		request.Header.Set("Accept", "application/json")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer response.Body.Close()

	contentType := response.Header.Get("Content-Type")
	if response.StatusCode != http.StatusOK {
		return &APIError{
			Operation:  operation,
			StatusCode: response.StatusCode,
			Message:    netutil.ErrorMessage(response.Body, contentType),
		}
	}

	if strings.HasPrefix(contentType, codec.ContentType) {
		err = netutil.DecodeCBORResponse(response.Body, result)
	} else {
		err = netutil.DecodeResponse(response.Body, result)
	}
	if err != nil {
		return fmt.Errorf("%s: decoding response: %w", operation, err)
	}
	return nil
}

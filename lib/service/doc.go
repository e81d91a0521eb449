// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the process scaffolding for the Annex HTTP
// service: a TCP [HTTPServer] with readiness signalling and graceful
// shutdown, and [NewLogger] for the JSON log stream the service
// writes to stderr.
//
// The service composes these in its own main() function rather than
// subclassing a framework. Routing, CORS, and response encoding stay
// with the caller's http.Handler.
package service

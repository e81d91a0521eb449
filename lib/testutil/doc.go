// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for annex packages.
//
// [WriteFile] and [WriteTree] lay out process folders under a test
// temporary directory. Paths are slash-separated and relative to the
// given root, matching the logical paths clients send.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so tests waiting on server goroutines never hang.
//
// [DiscardLogger] returns a logger that drops every record.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil

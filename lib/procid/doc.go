// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package procid extracts process identifiers from logical paths.
//
// A process identifier names one case folder: a four-digit year, a
// dot, and seven digits, optionally followed by a free-form suffix
// ("2024.1234567", "2024.1234567-case"). Archives are organized
// around the process folder, but requests usually target a subfolder
// at some depth below it, so [Resolve] scans path segments from the
// deepest to the shallowest and returns the first match.
//
// The identifier is always derived from a path; it is never stored
// on its own.
package procid

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for Annex
// binaries. Fatal reports an error from run() to stderr before the
// structured logger exists (or after it has been torn down) and exits.
//
// Outside cmd/annex, this package and lib/version are the only places
// that write to stdout or stderr directly; everything else logs
// through slog.
package process

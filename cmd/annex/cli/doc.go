// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the annex binary:
// a tree of [Command] values dispatched by name, pflag flag sets built
// on demand, generated help, [ExitError] for commands whose non-zero
// exit is an answer rather than a failure, and the --json output
// helpers.
package cli

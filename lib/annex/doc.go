// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package annex composes the path, manifest, and archive packages into
// the two flows Annex exists for, plus the lookups around them.
//
// Packaging resolves a logical path under the source root, finds its
// process identifier, scans the folder for eligible files, hashes them
// into a manifest, and writes the archive into the current year's
// partition:
//
//	listing.Resolve → procid.FromPath → Scanner.Scan → manifest.Build → Writer.Write
//
// Verification locates the newest archive for a logical path and
// recovers its root hash:
//
//	listing.Resolve → Locator.Locate → archive.ReadRootHash
//
// [Service] is the single entry point for both the HTTP service and
// the local mode of the CLI. It holds no per-request state; concurrent
// calls are safe, and concurrent packaging of the same archive is
// serialized by the archive writer's file lock.
package annex

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest builds the integrity manifest for a packaged folder.
//
// A manifest is plain text with one line per eligible file:
//
//	<64 hex chars> <absolute path>\n
//
// Lines appear in discovery order, not sorted. The root hash is the
// SHA-256 of the manifest's exact bytes, so any change to the file
// set, their order, or the way a path is spelled changes it. That is
// the point: the root hash binds the byte representation, not a
// logical reading of it.
//
// The pieces, in the order the build flow uses them:
//
//   - [Scanner] walks a folder to a bounded depth and returns the
//     files a [Selector] accepts
//   - [DigestFile] and [DigestReader] stream content through SHA-256
//     without buffering it
//   - [Build] digests every scanned file and assembles a [Manifest]
//   - [RootHash] hashes serialized manifest bytes
//
// [Parse] reads manifest bytes back into entries for auditing. The
// root hash is never derived from parsed entries.
package manifest

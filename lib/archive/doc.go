// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive writes, finds, and reads report-attachment archives.
//
// An archive is a standard zip file at
//
//	<destination-base>/<year>/<process-id>/anexo-laudo-<leaf>.zip
//
// where year is the year the archive was produced, process-id is the
// process folder the packaged folder belongs to, and leaf is the
// packaged folder's last path segment ("raiz" when the packaged folder
// is the process folder itself). The archive holds every manifest file
// at its path relative to the packaged folder, then the manifest as
// hashes.txt. Optionally a root_hash.txt entry, written just before
// the manifest, holds the root hash as text.
//
// [Writer] produces archives, [Locator] finds the newest archive for a
// logical path across year partitions, [ReadRootHash] recovers the
// root hash from an archive, and [Audit] re-checks every member
// against the manifest.
//
// Archives are treated as immutable once written. Writers take an
// exclusive flock(2) on the archive file, so two packaging requests
// for the same archive path run one after the other. Readers take no
// lock.
package archive

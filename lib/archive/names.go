// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/bureau-foundation/annex/lib/procid"
)

// Fixed archive layout names. Changing any of these makes existing
// archives unreachable.
const (
	// ManifestEntryName is the archive entry holding the manifest.
	ManifestEntryName = "hashes.txt"

	// RootHashEntryName is the optional archive entry holding the
	// root hash as text.
	RootHashEntryName = "root_hash.txt"

	// NamePrefix and NameSuffix surround the leaf folder name in the
	// archive file name.
	NamePrefix = "anexo-laudo-"
	NameSuffix = ".zip"

	// RootLeaf stands in for the leaf name when the packaged folder is
	// the process folder itself.
	RootLeaf = "raiz"
)

var yearPattern = regexp.MustCompile(`^[0-9]{4}$`)

// IsYear reports whether name is a year partition name.
func IsYear(name string) bool {
	return yearPattern.MatchString(name)
}

// FormatYear renders a year as a partition name.
func FormatYear(year int) string {
	return strconv.Itoa(year)
}

// Leaf returns the leaf folder name used in the archive name for a
// logical path. Paths that end at the process folder, and empty
// paths, use RootLeaf.
func Leaf(logicalPath string) string {
	segments := procid.Segments(logicalPath)
	if len(segments) == 0 {
		return RootLeaf
	}
	last := segments[len(segments)-1]
	if procid.Match(last) {
		return RootLeaf
	}
	return last
}

// Name returns the archive file name for a leaf folder name.
func Name(leaf string) string {
	return NamePrefix + leaf + NameSuffix
}

// NameForPath returns the archive file name for a logical path.
func NameForPath(logicalPath string) string {
	return Name(Leaf(logicalPath))
}

// Directory returns the directory holding archives for one process in
// one year partition.
func Directory(destinationBase, year, processID string) string {
	return filepath.Join(destinationBase, year, processID)
}

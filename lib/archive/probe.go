// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bureau-foundation/annex/lib/procid"
)

// ProbeStatus is the outcome of an existence probe.
type ProbeStatus string

const (
	// ProbeInvalid means the path has no process folder.
	ProbeInvalid ProbeStatus = "invalid"

	// ProbeEmpty means no archive exists for the path.
	ProbeEmpty ProbeStatus = "empty"

	// ProbeHasZip means an archive exists; the result names it.
	ProbeHasZip ProbeStatus = "hasZip"
)

// ProbeResult is the outcome of Probe. ArchiveName and Year are set
// only for ProbeHasZip.
type ProbeResult struct {
	Status      ProbeStatus `json:"status"`
	ArchiveName string      `json:"archiveName,omitempty"`
	Year        string      `json:"year,omitempty"`
}

// Probe reports whether an archive exists for logicalPath without
// opening it. It walks the same year partitions as Locate, newest
// first, but only lists directories.
func (l *Locator) Probe(logicalPath string) (*ProbeResult, error) {
	processID, err := procid.FromPath(logicalPath)
	if err != nil {
		return &ProbeResult{Status: ProbeInvalid}, nil
	}
	name := NameForPath(logicalPath)

	years, err := l.Years()
	if err != nil {
		if errors.Is(err, ErrArchiveNotFound) {
			return &ProbeResult{Status: ProbeEmpty}, nil
		}
		return nil, err
	}

	for _, year := range years {
		directory := Directory(l.DestinationBase, year, processID)
		entries, err := os.ReadDir(directory)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("listing %s: %w", directory, err)
		}
		for _, entry := range entries {
			if entry.Name() == name && !entry.IsDir() {
				return &ProbeResult{Status: ProbeHasZip, ArchiveName: name, Year: year}, nil
			}
		}
	}
	return &ProbeResult{Status: ProbeEmpty}, nil
}

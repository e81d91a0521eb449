// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bureau-foundation/annex/lib/procid"
)

// Locator finds archives under a destination base.
type Locator struct {
	DestinationBase string
}

// Location identifies an existing archive.
type Location struct {
	Path      string `json:"path"`
	Year      string `json:"year"`
	ProcessID string `json:"processIdentifier"`
	Name      string `json:"name"`
}

// Years lists the year partitions under the destination base, newest
// first. Entries that are not directories or not named by exactly four
// digits are ignored. Returns a *LocateError with ReasonNoDestination
// if the base does not exist.
func (l *Locator) Years() ([]string, error) {
	entries, err := os.ReadDir(l.DestinationBase)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LocateError{Reason: ReasonNoDestination}
		}
		return nil, fmt.Errorf("listing year partitions in %s: %w", l.DestinationBase, err)
	}

	var years []string
	for _, entry := range entries {
		if entry.IsDir() && IsYear(entry.Name()) {
			years = append(years, entry.Name())
		}
	}
	// Four-digit names sort numerically as strings.
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years, nil
}

// Locate resolves logicalPath to its newest archive. The process
// identifier comes from the path (see procid.FromPath) and the
// archive name from its leaf segment. Year partitions are checked
// newest first; the first one holding the archive wins, so a
// reprocessed folder surfaces its latest copy.
//
// Errors: *procid.ResolutionError when the path has no process folder,
// *LocateError (matching ErrArchiveNotFound) when nothing is found.
func (l *Locator) Locate(logicalPath string) (*Location, error) {
	processID, err := procid.FromPath(logicalPath)
	if err != nil {
		return nil, err
	}
	name := NameForPath(logicalPath)

	years, err := l.Years()
	if err != nil {
		var locateErr *LocateError
		if errors.As(err, &locateErr) {
			locateErr.ProcessID = processID
			locateErr.Name = name
		}
		return nil, err
	}

	for _, year := range years {
		path := filepath.Join(Directory(l.DestinationBase, year, processID), name)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("checking %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		return &Location{Path: path, Year: year, ProcessID: processID, Name: name}, nil
	}

	return nil, &LocateError{ProcessID: processID, Name: name, Reason: ReasonNotFound}
}

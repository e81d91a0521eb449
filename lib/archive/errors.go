// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
)

// ErrArchiveNotFound is matched (via errors.Is) by every LocateError:
// the destination base is missing or no year partition holds the
// expected archive.
var ErrArchiveNotFound = errors.New("archive not found")

// ErrManifestMissing is returned when an archive has neither a
// root-hash entry nor a manifest entry.
var ErrManifestMissing = errors.New("archive has no " + ManifestEntryName)

// ErrReservedMember is returned when a packaged file would be stored
// under the manifest or root-hash entry name.
var ErrReservedMember = errors.New("file name is reserved for archive metadata")

// WriteError reports a failed packaging step. Op names the step
// ("creating destination", "adding hashlog.001", ...).
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing archive %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// LocateReason distinguishes the ways a lookup can come up empty.
type LocateReason string

const (
	// ReasonNoDestination means the destination base does not exist.
	ReasonNoDestination LocateReason = "destination base does not exist"

	// ReasonNotFound means no year partition holds the archive.
	ReasonNotFound LocateReason = "no year partition holds the archive"
)

// LocateError reports an archive that could not be found.
type LocateError struct {
	ProcessID string
	Name      string
	Reason    LocateReason
}

func (e *LocateError) Error() string {
	return fmt.Sprintf("locating %s for process %s: %s", e.Name, e.ProcessID, e.Reason)
}

// Is makes every LocateError match ErrArchiveNotFound.
func (e *LocateError) Is(target error) bool {
	return target == ErrArchiveNotFound
}

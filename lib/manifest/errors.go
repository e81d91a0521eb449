// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
)

// ErrEmptyManifest is returned when a scan finds no eligible files.
// No manifest and no archive are produced in that case.
var ErrEmptyManifest = errors.New("no eligible files found")

// ScanError reports a directory that could not be read during a scan.
type ScanError struct {
	Directory string
	Err       error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning %s: %v", e.Directory, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// DigestError reports a stream that could not be hashed. Path names
// the file or archive entry being read.
type DigestError struct {
	Path string
	Err  error
}

func (e *DigestError) Error() string {
	return fmt.Sprintf("hashing %s: %v", e.Path, e.Err)
}

func (e *DigestError) Unwrap() error { return e.Err }

// ParseError reports a malformed manifest line. Line is 1-based.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("manifest line %d: %s", e.Line, e.Reason)
}

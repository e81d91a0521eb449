// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package procid

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// pattern matches a process folder name. Only the prefix is
// constrained; anything may follow the seven digits.
var pattern = regexp.MustCompile(`^[0-9]{4}\.[0-9]{7}`)

// ResolutionError reports a path with no segment that looks like a
// process folder.
type ResolutionError struct {
	Path string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no process folder found in path %q", e.Path)
}

// Match reports whether name is a process folder name.
func Match(name string) bool {
	return pattern.MatchString(name)
}

// Resolve returns the deepest segment that is a process folder name.
func Resolve(segments []string) (string, error) {
	for index := len(segments) - 1; index >= 0; index-- {
		if Match(segments[index]) {
			return segments[index], nil
		}
	}
	return "", &ResolutionError{Path: strings.Join(segments, "/")}
}

// FromPath splits a logical path into segments and resolves it. Both
// forward slashes and the OS separator are accepted, since logical
// paths arrive from HTTP clients as well as from the local shell.
func FromPath(path string) (string, error) {
	id, err := Resolve(Segments(path))
	if err != nil {
		return "", &ResolutionError{Path: path}
	}
	return id, nil
}

// Segments splits a logical path into its non-empty segments.
func Segments(path string) []string {
	normalized := filepath.ToSlash(filepath.Clean(filepath.FromSlash(path)))
	var segments []string
	for _, segment := range strings.Split(normalized, "/") {
		if segment == "" || segment == "." {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

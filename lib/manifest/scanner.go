// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// DefaultMaxDepth is how many directory levels below the target
// folder a scan descends. Depth 0 is the target folder itself.
const DefaultMaxDepth = 5

// DefaultPatterns select hash-log files and the file listing that the
// forensic tooling writes next to them.
var DefaultPatterns = []string{
	"hashlog.*",
	"Lista de Arquivos.csv",
}

// Selector decides whether a file belongs in the manifest. It sees the
// base name only.
type Selector interface {
	Select(name string) bool
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(name string) bool

// Select calls f(name).
func (f SelectorFunc) Select(name string) bool { return f(name) }

// GlobSelector accepts a name when any of its patterns matches it.
type GlobSelector struct {
	patterns []string
	globs    []glob.Glob
}

// NewGlobSelector compiles patterns with gobwas/glob syntax. Patterns
// match whole base names: "hashlog.*" accepts "hashlog.001" and
// "hashlog." but not "old-hashlog.001".
func NewGlobSelector(patterns ...string) (*GlobSelector, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("glob selector needs at least one pattern")
	}
	selector := &GlobSelector{patterns: patterns}
	for _, pattern := range patterns {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
		}
		selector.globs = append(selector.globs, compiled)
	}
	return selector, nil
}

// Select reports whether name matches any pattern.
func (s *GlobSelector) Select(name string) bool {
	for _, compiled := range s.globs {
		if compiled.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns, for logging.
func (s *GlobSelector) Patterns() []string {
	return s.patterns
}

// Scanner finds eligible files below a folder.
type Scanner struct {
	// MaxDepth bounds recursion. Files in directories deeper than
	// MaxDepth levels below the target are silently skipped.
	MaxDepth int

	// Selector picks eligible files by base name.
	Selector Selector
}

// NewScanner returns a Scanner with the default depth and patterns.
func NewScanner() *Scanner {
	selector, err := NewGlobSelector(DefaultPatterns...)
	if err != nil {
		panic("manifest: default patterns do not compile: " + err.Error())
	}
	return &Scanner{MaxDepth: DefaultMaxDepth, Selector: selector}
}

// Scan returns the absolute paths of eligible files under root, in
// the order the filesystem enumerates them (os.ReadDir order, which
// is sorted by name). Subdirectories are descended into as they are
// encountered, so a subdirectory's files appear at its position in
// the parent listing.
//
// Returns ErrEmptyManifest when nothing is eligible and *ScanError
// when a directory cannot be read.
func (s *Scanner) Scan(root string) ([]string, error) {
	if s.Selector == nil {
		return nil, fmt.Errorf("scanner has no selector")
	}

	absolute, err := filepath.Abs(root)
	if err != nil {
		return nil, &ScanError{Directory: root, Err: err}
	}

	var files []string
	if err := s.walk(absolute, 0, &files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", absolute, ErrEmptyManifest)
	}
	return files, nil
}

func (s *Scanner) walk(directory string, depth int, files *[]string) error {
	if depth > s.MaxDepth {
		return nil
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		return &ScanError{Directory: directory, Err: err}
	}

	for _, entry := range entries {
		path := filepath.Join(directory, entry.Name())
		if entry.IsDir() {
			if err := s.walk(path, depth+1, files); err != nil {
				return err
			}
			continue
		}
		if !s.Selector.Select(entry.Name()) {
			continue
		}
		regular, err := isRegularFile(path, entry)
		if err != nil {
			return &ScanError{Directory: directory, Err: err}
		}
		if regular {
			*files = append(*files, path)
		}
	}
	return nil
}

// isRegularFile reports whether entry is a regular file or a symlink
// to one. Symlinked directories, dangling links, and special files are
// not packaged.
func isRegularFile(path string, entry fs.DirEntry) (bool, error) {
	mode := entry.Type()
	if mode.IsRegular() {
		return true, nil
	}
	if mode&fs.ModeSymlink == 0 {
		return false, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

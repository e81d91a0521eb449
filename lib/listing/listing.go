// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package listing resolves logical paths against the source root and
// lists folder contents for the browsing frontend.
package listing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned for a logical path that resolves outside
// the source root.
var ErrOutsideRoot = errors.New("path is outside the source root")

// Entry is one child of a listed folder.
type Entry struct {
	Name         string `json:"name"`
	IsDirectory  bool   `json:"isDirectory"`
	RelativePath string `json:"relativePath"`
}

// Resolve joins logicalPath to root and returns the absolute result.
// The result must be root itself or lie below it; a plain string
// prefix test is not enough ("/data/cases2" starts with "/data/cases"),
// so the check requires a separator after the root.
func Resolve(root, logicalPath string) (string, error) {
	cleanRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving source root %s: %w", root, err)
	}
	full := filepath.Join(cleanRoot, filepath.FromSlash(logicalPath))
	if full == cleanRoot {
		return full, nil
	}

	prefix := cleanRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(full, prefix) {
		return "", fmt.Errorf("%q: %w", logicalPath, ErrOutsideRoot)
	}
	return full, nil
}

// List returns the immediate children of logicalPath in directory
// order. RelativePath is the child's logical path, ready to be sent
// back as the next request. A missing folder yields an error matching
// fs.ErrNotExist.
func List(root, logicalPath string) ([]Entry, error) {
	folder, err := Resolve(root, logicalPath)
	if err != nil {
		return nil, err
	}

	children, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", logicalPath, err)
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		entries = append(entries, Entry{
			Name:         child.Name(),
			IsDirectory:  child.IsDir(),
			RelativePath: filepath.ToSlash(filepath.Join(filepath.FromSlash(logicalPath), child.Name())),
		})
	}
	return entries, nil
}

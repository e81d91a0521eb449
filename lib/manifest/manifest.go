// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Entry is one manifest line: the digest of a file and the path it was
// read from.
type Entry struct {
	Digest string `json:"digest"`
	Path   string `json:"path"`
}

// Line returns the serialized form of e, including the trailing
// newline.
func (e Entry) Line() string {
	return e.Digest + " " + e.Path + "\n"
}

// Manifest is an ordered list of entries. The order is the scan order
// and is part of what the root hash commits to.
type Manifest struct {
	Entries []Entry
}

// Build digests each path in order and returns the manifest. The
// context is checked between files; a cancelled build returns the
// context's error and no manifest.
func Build(ctx context.Context, paths []string) (*Manifest, error) {
	if len(paths) == 0 {
		return nil, ErrEmptyManifest
	}

	manifest := &Manifest{Entries: make([]Entry, 0, len(paths))}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		digest, err := DigestFile(path)
		if err != nil {
			return nil, err
		}
		manifest.Entries = append(manifest.Entries, Entry{Digest: digest, Path: path})
	}
	return manifest, nil
}

// Bytes returns the serialized manifest: each entry's Line, in order.
func (m *Manifest) Bytes() []byte {
	var buffer bytes.Buffer
	for _, entry := range m.Entries {
		buffer.WriteString(entry.Line())
	}
	return buffer.Bytes()
}

// RootHash returns the root hash of the serialized manifest.
func (m *Manifest) RootHash() string {
	return RootHash(m.Bytes())
}

// Paths returns the entry paths in manifest order.
func (m *Manifest) Paths() []string {
	paths := make([]string, len(m.Entries))
	for index, entry := range m.Entries {
		paths[index] = entry.Path
	}
	return paths
}

// Parse splits manifest bytes into entries. Every line must end with a
// newline and consist of a digest, one space, and a non-empty path.
// The path is everything after the first space, so paths containing
// spaces survive.
func Parse(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if data[len(data)-1] != '\n' {
		return nil, &ParseError{Line: bytes.Count(data, []byte{'\n'}) + 1, Reason: "missing trailing newline"}
	}

	lines := strings.Split(string(data[:len(data)-1]), "\n")
	entries := make([]Entry, 0, len(lines))
	for index, line := range lines {
		digest, path, found := strings.Cut(line, " ")
		if !found {
			return nil, &ParseError{Line: index + 1, Reason: "missing separator"}
		}
		if !IsDigest(digest) {
			return nil, &ParseError{Line: index + 1, Reason: fmt.Sprintf("invalid digest %q", digest)}
		}
		if path == "" {
			return nil, &ParseError{Line: index + 1, Reason: "empty path"}
		}
		entries = append(entries, Entry{Digest: digest, Path: path})
	}
	return entries, nil
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/bureau-foundation/annex/lib/manifest"
)

// RootHashSource records how a root hash was obtained. The two sources
// are not equally trustworthy: a stored value is taken on faith, a
// recomputed one is derived from the manifest bytes in the archive.
type RootHashSource string

const (
	// SourceStored means the value came from root_hash.txt.
	SourceStored RootHashSource = "stored"

	// SourceRecomputed means the value is the SHA-256 of hashes.txt.
	SourceRecomputed RootHashSource = "recomputed"
)

// maxStoredRootHash bounds how much of root_hash.txt is read. A root
// hash is 64 characters; the slack allows for a trailing newline and
// surrounding whitespace.
const maxStoredRootHash = 1024

// RootHashResult is the outcome of ReadRootHash.
type RootHashResult struct {
	RootHash string         `json:"rootHash"`
	Source   RootHashSource `json:"source"`
}

// ReadRootHash opens the archive at path and recovers its root hash.
//
// Entries are examined in archive order. The first entry named
// root_hash.txt or hashes.txt decides the outcome: a root_hash.txt
// entry yields its trimmed text, a hashes.txt entry is streamed
// through SHA-256. Nothing after the deciding entry is looked at, and
// entries before it are skipped without reading their contents.
// Returns ErrManifestMissing when neither entry exists.
func ReadRootHash(path string) (*RootHashResult, error) {
	archiveReader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer archiveReader.Close()

	registerDecompressors(&archiveReader.Reader)

	result, err := readRootHash(&archiveReader.Reader)
	if err != nil {
		return nil, fmt.Errorf("reading root hash from %s: %w", path, err)
	}
	return result, nil
}

func readRootHash(archiveReader *zip.Reader) (*RootHashResult, error) {
	for _, member := range archiveReader.File {
		switch member.Name {
		case RootHashEntryName:
			value, err := readStoredRootHash(member)
			if err != nil {
				return nil, err
			}
			return &RootHashResult{RootHash: value, Source: SourceStored}, nil

		case ManifestEntryName:
			value, err := digestMember(member)
			if err != nil {
				return nil, err
			}
			return &RootHashResult{RootHash: value, Source: SourceRecomputed}, nil
		}
	}
	return nil, ErrManifestMissing
}

func readStoredRootHash(member *zip.File) (string, error) {
	content, err := member.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", member.Name, err)
	}
	defer content.Close()

	data, err := io.ReadAll(io.LimitReader(content, maxStoredRootHash))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", member.Name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// digestMember streams one archive member through SHA-256. The zip
// reader verifies the member's CRC-32 at end of stream, so a corrupted
// member surfaces as a *manifest.DigestError rather than a wrong hash.
func digestMember(member *zip.File) (string, error) {
	content, err := member.Open()
	if err != nil {
		return "", &manifest.DigestError{Path: member.Name, Err: err}
	}
	defer content.Close()

	return manifest.DigestReader(member.Name, content)
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/bureau-foundation/annex/lib/manifest"
)

// MemberCheck is the audit result for one manifest line.
type MemberCheck struct {
	// Member is the archive member the line was matched to.
	Member string `json:"member"`

	// Path is the path recorded in the manifest.
	Path string `json:"path"`

	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Match    bool   `json:"match"`
}

// AuditReport is the outcome of Audit.
type AuditReport struct {
	// RootHash is recomputed from the stored manifest bytes.
	RootHash string `json:"rootHash"`

	// StoredRootHash is the trimmed content of root_hash.txt, if the
	// archive has one.
	StoredRootHash string `json:"storedRootHash,omitempty"`

	Members []MemberCheck `json:"members"`

	// Missing lists manifest paths with no matching archive member.
	Missing []string `json:"missing,omitempty"`

	// Unlisted lists archive members the manifest does not mention.
	Unlisted []string `json:"unlisted,omitempty"`
}

// OK reports whether every member matches its manifest line, nothing
// is missing or unlisted, and a stored root hash (if any) agrees with
// the recomputed one.
func (r *AuditReport) OK() bool {
	if len(r.Missing) > 0 || len(r.Unlisted) > 0 {
		return false
	}
	if r.StoredRootHash != "" && r.StoredRootHash != r.RootHash {
		return false
	}
	for _, check := range r.Members {
		if !check.Match {
			return false
		}
	}
	return true
}

// Audit re-hashes every member of the archive at path and compares it
// with the manifest. Manifest paths are absolute paths on the machine
// that packaged the folder while members are relative to the packaged
// folder, so a line matches the longest member name that is a
// slash-bounded suffix of its path.
func Audit(path string) (*AuditReport, error) {
	archiveReader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer archiveReader.Close()

	registerDecompressors(&archiveReader.Reader)

	report, err := audit(&archiveReader.Reader)
	if err != nil {
		return nil, fmt.Errorf("auditing %s: %w", path, err)
	}
	return report, nil
}

func audit(archiveReader *zip.Reader) (*AuditReport, error) {
	var manifestMember, rootHashMember *zip.File
	var members []*zip.File
	for _, member := range archiveReader.File {
		switch {
		case member.Name == ManifestEntryName:
			if manifestMember == nil {
				manifestMember = member
			}
		case member.Name == RootHashEntryName:
			if rootHashMember == nil {
				rootHashMember = member
			}
		case strings.HasSuffix(member.Name, "/"):
			// Directory entries carry no content.
		default:
			members = append(members, member)
		}
	}
	if manifestMember == nil {
		return nil, ErrManifestMissing
	}

	manifestBytes, err := readMember(manifestMember)
	if err != nil {
		return nil, err
	}
	entries, err := manifest.Parse(manifestBytes)
	if err != nil {
		return nil, err
	}

	report := &AuditReport{RootHash: manifest.RootHash(manifestBytes)}
	if rootHashMember != nil {
		stored, err := readStoredRootHash(rootHashMember)
		if err != nil {
			return nil, err
		}
		report.StoredRootHash = stored
	}

	used := make(map[*zip.File]bool, len(members))
	for _, entry := range entries {
		member := matchMember(entry.Path, members)
		if member == nil {
			report.Missing = append(report.Missing, entry.Path)
			continue
		}
		used[member] = true

		actual, err := digestMember(member)
		if err != nil {
			return nil, err
		}
		report.Members = append(report.Members, MemberCheck{
			Member:   member.Name,
			Path:     entry.Path,
			Expected: entry.Digest,
			Actual:   actual,
			Match:    actual == entry.Digest,
		})
	}

	for _, member := range members {
		if !used[member] {
			report.Unlisted = append(report.Unlisted, member.Name)
		}
	}
	return report, nil
}

// matchMember returns the member whose name is the longest
// slash-bounded suffix of manifestPath, or nil.
func matchMember(manifestPath string, members []*zip.File) *zip.File {
	slashPath := filepath.ToSlash(manifestPath)
	var best *zip.File
	for _, member := range members {
		if slashPath != member.Name && !strings.HasSuffix(slashPath, "/"+member.Name) {
			continue
		}
		if best == nil || len(member.Name) > len(best.Name) {
			best = member
		}
	}
	return best
}

func readMember(member *zip.File) ([]byte, error) {
	content, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", member.Name, err)
	}
	defer content.Close()

	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, content); err != nil {
		return nil, fmt.Errorf("reading %s: %w", member.Name, err)
	}
	return buffer.Bytes(), nil
}

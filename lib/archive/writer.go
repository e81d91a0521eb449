// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"

	"github.com/bureau-foundation/annex/lib/clock"
	"github.com/bureau-foundation/annex/lib/manifest"
)

// Writer packages a folder's manifest files into an archive under the
// current year's partition.
type Writer struct {
	// DestinationBase is the root of the year partitions.
	DestinationBase string

	// Clock supplies the packaging year.
	Clock clock.Clock

	// Compression selects the member compression method. The zero
	// value is CompressionDeflate.
	Compression Compression

	// WriteRootHashEntry adds a root_hash.txt entry before the
	// manifest. Readers then return the stored value without
	// re-hashing the manifest.
	WriteRootHashEntry bool

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// Request describes one packaging operation.
type Request struct {
	// ProcessID is the process folder the packaged folder belongs to.
	ProcessID string

	// Folder is the absolute path of the packaged folder. Member
	// names are manifest paths relative to it.
	Folder string

	// Leaf is the leaf name for the archive file name (see Leaf).
	Leaf string

	// Manifest lists the files to package, in order.
	Manifest *manifest.Manifest
}

// Record describes a written archive.
type Record struct {
	Path          string `json:"path"`
	Year          string `json:"year"`
	ProcessID     string `json:"processIdentifier"`
	Name          string `json:"name"`
	RootHash      string `json:"rootHash"`
	ArchiveDigest string `json:"archiveDigest"`
	Files         int    `json:"files"`
	Size          int64  `json:"size"`
}

// Write creates or replaces the archive for request. Any failure
// aborts the whole write and returns *WriteError; the archive file may
// be left partially written. The context is checked between members.
func (w *Writer) Write(ctx context.Context, request Request) (*Record, error) {
	if request.Manifest == nil || len(request.Manifest.Entries) == 0 {
		return nil, manifest.ErrEmptyManifest
	}

	year := FormatYear(clock.Year(w.Clock))
	directory := Directory(w.DestinationBase, year, request.ProcessID)
	name := Name(request.Leaf)
	path := filepath.Join(directory, name)

	members, err := plannedMembers(request)
	if err != nil {
		return nil, &WriteError{Path: path, Op: "naming members", Err: err}
	}

	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, &WriteError{Path: path, Op: "creating destination", Err: err}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, &WriteError{Path: path, Op: "opening archive", Err: err}
	}
	defer file.Close()

	if err := lockExclusive(file); err != nil {
		return nil, &WriteError{Path: path, Op: "locking archive", Err: err}
	}
	defer unlock(file)

	if err := file.Truncate(0); err != nil {
		return nil, &WriteError{Path: path, Op: "truncating archive", Err: err}
	}

	manifestBytes := request.Manifest.Bytes()
	rootHash := manifest.RootHash(manifestBytes)

	if err := w.writeMembers(ctx, file, request, members, manifestBytes, rootHash); err != nil {
		return nil, &WriteError{Path: path, Op: err.op, Err: err.err}
	}

	if err := file.Sync(); err != nil {
		return nil, &WriteError{Path: path, Op: "syncing archive", Err: err}
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, &WriteError{Path: path, Op: "rewinding archive", Err: err}
	}
	archiveDigest, err := digestStream(path, file)
	if err != nil {
		return nil, &WriteError{Path: path, Op: "digesting archive", Err: err}
	}
	info, err := file.Stat()
	if err != nil {
		return nil, &WriteError{Path: path, Op: "reading archive size", Err: err}
	}

	w.Logger.Info("archive written",
		"archive", path,
		"process_id", request.ProcessID,
		"year", year,
		"files", len(request.Manifest.Entries),
		"size", humanize.Bytes(uint64(info.Size())),
		"compression", w.compression(),
		"root_hash", rootHash,
	)

	return &Record{
		Path:          path,
		Year:          year,
		ProcessID:     request.ProcessID,
		Name:          name,
		RootHash:      rootHash,
		ArchiveDigest: archiveDigest,
		Files:         len(request.Manifest.Entries),
		Size:          info.Size(),
	}, nil
}

// stepError carries the failing step name out of writeMembers so Write
// can wrap it with the archive path.
type stepError struct {
	op  string
	err error
}

func (w *Writer) writeMembers(ctx context.Context, output io.Writer, request Request, members []string, manifestBytes []byte, rootHash string) *stepError {
	zipWriter := zip.NewWriter(output)
	registerCompressors(zipWriter)
	method := w.compression().method()

	for index, entry := range request.Manifest.Entries {
		if err := ctx.Err(); err != nil {
			return &stepError{op: "packaging cancelled", err: err}
		}
		if err := addFile(zipWriter, members[index], entry.Path, method); err != nil {
			return &stepError{op: "adding " + members[index], err: err}
		}
	}

	now := w.Clock.Now()
	if w.WriteRootHashEntry {
		if err := addBytes(zipWriter, RootHashEntryName, []byte(rootHash), method, now); err != nil {
			return &stepError{op: "adding " + RootHashEntryName, err: err}
		}
	}
	if err := addBytes(zipWriter, ManifestEntryName, manifestBytes, method, now); err != nil {
		return &stepError{op: "adding " + ManifestEntryName, err: err}
	}

	if err := zipWriter.Close(); err != nil {
		return &stepError{op: "finalizing archive", err: err}
	}
	return nil
}

func (w *Writer) compression() Compression {
	if w.Compression == "" {
		return CompressionDeflate
	}
	return w.Compression
}

// plannedMembers returns the member name of every manifest entry, in
// manifest order. A packaged file may not take the name of an entry
// the writer adds itself: readers stop at the first such name, so a
// source file called hashes.txt would shadow the real manifest.
func plannedMembers(request Request) ([]string, error) {
	members := make([]string, len(request.Manifest.Entries))
	for index, entry := range request.Manifest.Entries {
		name, err := memberName(request.Folder, entry.Path)
		if err != nil {
			return nil, err
		}
		if name == ManifestEntryName || name == RootHashEntryName {
			return nil, fmt.Errorf("%s: %w", entry.Path, ErrReservedMember)
		}
		members[index] = name
	}
	return members, nil
}

// memberName returns path relative to folder with forward slashes.
// Paths outside folder are rejected; the scanner never produces them.
func memberName(folder, path string) (string, error) {
	relative, err := filepath.Rel(folder, path)
	if err != nil {
		return "", err
	}
	if relative == "." || relative == ".." || filepath.IsAbs(relative) ||
		strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not inside %s", path, folder)
	}
	return filepath.ToSlash(relative), nil
}

// addFile copies the file at path into the archive, keeping its
// modification time.
func addFile(zipWriter *zip.Writer, name, path string, method uint16) error {
	source, err := os.Open(path)
	if err != nil {
		return err
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = method

	member, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(member, source)
	return err
}

func addBytes(zipWriter *zip.Writer, name string, data []byte, method uint16, modified time.Time) error {
	header := &zip.FileHeader{Name: name, Method: method, Modified: modified}
	member, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = member.Write(data)
	return err
}

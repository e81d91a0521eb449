// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package annex

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/annex/lib/archive"
	"github.com/bureau-foundation/annex/lib/clock"
	"github.com/bureau-foundation/annex/lib/config"
	"github.com/bureau-foundation/annex/lib/listing"
	"github.com/bureau-foundation/annex/lib/manifest"
	"github.com/bureau-foundation/annex/lib/procid"
)

// Service packages and verifies archives for folders under one source
// root.
type Service struct {
	sourceRoot string
	scanner    *manifest.Scanner
	writer     *archive.Writer
	locator    *archive.Locator
	logger     *slog.Logger
}

// Verification is the outcome of RootHash.
type Verification struct {
	RootHash      string                 `json:"rootHash"`
	Source        archive.RootHashSource `json:"source"`
	Location      string                 `json:"location"`
	Year          string                 `json:"year"`
	ProcessID     string                 `json:"processIdentifier"`
	ArchiveName   string                 `json:"archiveName"`
	ArchiveDigest string                 `json:"archiveDigest"`
}

// AuditResult pairs an audit report with the archive it describes.
type AuditResult struct {
	Location archive.Location     `json:"location"`
	OK       bool                 `json:"ok"`
	Report   *archive.AuditReport `json:"report"`
}

// New builds a Service from a validated configuration. The clock
// supplies the packaging year.
func New(cfg *config.Config, clk clock.Clock, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		return nil, fmt.Errorf("annex: logger is required")
	}

	selector, err := manifest.NewGlobSelector(cfg.Scanner.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("scanner patterns: %w", err)
	}
	compression, err := archive.ParseCompression(cfg.Archive.Compression)
	if err != nil {
		return nil, err
	}

	return &Service{
		sourceRoot: cfg.Paths.SourceRoot,
		scanner: &manifest.Scanner{
			MaxDepth: cfg.Scanner.MaxDepth,
			Selector: selector,
		},
		writer: &archive.Writer{
			DestinationBase:    cfg.Paths.DestinationBase,
			Clock:              clk,
			Compression:        compression,
			WriteRootHashEntry: cfg.Archive.WriteRootHashEntry,
			Logger:             logger,
		},
		locator: &archive.Locator{DestinationBase: cfg.Paths.DestinationBase},
		logger:  logger,
	}, nil
}

// Package builds the manifest for the folder at logicalPath and writes
// its archive. Nothing is created when the folder has no eligible
// files.
//
// Errors: listing.ErrOutsideRoot, *procid.ResolutionError,
// manifest.ErrEmptyManifest, *manifest.ScanError (matching
// fs.ErrNotExist for a missing folder), *manifest.DigestError,
// *archive.WriteError.
func (s *Service) Package(ctx context.Context, logicalPath string) (*archive.Record, error) {
	folder, err := listing.Resolve(s.sourceRoot, logicalPath)
	if err != nil {
		return nil, err
	}
	processID, err := procid.FromPath(logicalPath)
	if err != nil {
		return nil, err
	}

	files, err := s.scanner.Scan(folder)
	if err != nil {
		return nil, err
	}
	built, err := manifest.Build(ctx, files)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("manifest built",
		"process_id", processID,
		"folder", folder,
		"files", len(built.Entries),
	)

	return s.writer.Write(ctx, archive.Request{
		ProcessID: processID,
		Folder:    folder,
		Leaf:      archive.Leaf(logicalPath),
		Manifest:  built,
	})
}

// RootHash locates the newest archive for logicalPath and returns its
// root hash together with a BLAKE3 digest of the archive file.
//
// Errors: listing.ErrOutsideRoot, *procid.ResolutionError,
// *archive.LocateError (matching archive.ErrArchiveNotFound),
// archive.ErrManifestMissing.
func (s *Service) RootHash(ctx context.Context, logicalPath string) (*Verification, error) {
	location, err := s.locate(logicalPath)
	if err != nil {
		return nil, err
	}

	result, err := archive.ReadRootHash(location.Path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	digest, err := archive.DigestArchive(location.Path)
	if err != nil {
		return nil, err
	}

	s.logger.Info("root hash read",
		"archive", location.Path,
		"process_id", location.ProcessID,
		"year", location.Year,
		"source", result.Source,
		"root_hash", result.RootHash,
	)

	return &Verification{
		RootHash:      result.RootHash,
		Source:        result.Source,
		Location:      location.Path,
		Year:          location.Year,
		ProcessID:     location.ProcessID,
		ArchiveName:   location.Name,
		ArchiveDigest: digest,
	}, nil
}

// Probe reports whether an archive exists for logicalPath without
// opening it.
func (s *Service) Probe(logicalPath string) (*archive.ProbeResult, error) {
	if _, err := listing.Resolve(s.sourceRoot, logicalPath); err != nil {
		return nil, err
	}
	return s.locator.Probe(logicalPath)
}

// List returns the immediate children of the folder at logicalPath.
func (s *Service) List(logicalPath string) ([]listing.Entry, error) {
	return listing.List(s.sourceRoot, logicalPath)
}

// Audit locates the newest archive for logicalPath and re-hashes every
// member against its manifest.
func (s *Service) Audit(ctx context.Context, logicalPath string) (*AuditResult, error) {
	location, err := s.locate(logicalPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := archive.Audit(location.Path)
	if err != nil {
		return nil, err
	}
	ok := report.OK()
	if !ok {
		s.logger.Warn("archive audit failed",
			"archive", location.Path,
			"process_id", location.ProcessID,
			"missing", len(report.Missing),
		)
	}
	return &AuditResult{Location: *location, OK: ok, Report: report}, nil
}

func (s *Service) locate(logicalPath string) (*archive.Location, error) {
	if _, err := listing.Resolve(s.sourceRoot, logicalPath); err != nil {
		return nil, err
	}
	return s.locator.Locate(logicalPath)
}

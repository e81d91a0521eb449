// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/bureau-foundation/annex/lib/annex"
	"github.com/bureau-foundation/annex/lib/annexclient"
)

// localBackend runs operations in process and reports them in the
// service's wire format, so commands format both modes identically.
type localBackend struct {
	service *annex.Service
}

func (b *localBackend) Package(ctx context.Context, logicalPath string) (*annexclient.PackageResponse, error) {
	record, err := b.service.Package(ctx, logicalPath)
	if err != nil {
		return nil, err
	}
	return &annexclient.PackageResponse{
		Success:       true,
		Location:      record.Path,
		RootHash:      record.RootHash,
		ProcessID:     record.ProcessID,
		ArchiveDigest: record.ArchiveDigest,
		Year:          record.Year,
		Files:         record.Files,
		Size:          record.Size,
	}, nil
}

func (b *localBackend) RootHash(ctx context.Context, logicalPath string) (*annexclient.RootHashResponse, error) {
	verification, err := b.service.RootHash(ctx, logicalPath)
	if err != nil {
		return nil, err
	}
	return &annexclient.RootHashResponse{
		RootHash:      verification.RootHash,
		Source:        string(verification.Source),
		Location:      verification.Location,
		Year:          verification.Year,
		ProcessID:     verification.ProcessID,
		ArchiveName:   verification.ArchiveName,
		ArchiveDigest: verification.ArchiveDigest,
	}, nil
}

func (b *localBackend) ArchiveStatus(ctx context.Context, logicalPath string) (*annexclient.ArchiveStatusResponse, error) {
	result, err := b.service.Probe(logicalPath)
	if err != nil {
		return nil, err
	}
	return &annexclient.ArchiveStatusResponse{
		Status:      string(result.Status),
		ArchiveName: result.ArchiveName,
		Year:        result.Year,
	}, nil
}

func (b *localBackend) List(ctx context.Context, logicalPath string) ([]annexclient.FolderEntry, error) {
	entries, err := b.service.List(logicalPath)
	if err != nil {
		return nil, err
	}
	result := make([]annexclient.FolderEntry, len(entries))
	for i, entry := range entries {
		result[i] = annexclient.FolderEntry{
			Name:         entry.Name,
			IsDirectory:  entry.IsDirectory,
			RelativePath: entry.RelativePath,
		}
	}
	return result, nil
}

func (b *localBackend) Audit(ctx context.Context, logicalPath string) (*annexclient.AuditResponse, error) {
	audit, err := b.service.Audit(ctx, logicalPath)
	if err != nil {
		return nil, err
	}

	response := &annexclient.AuditResponse{
		Location: annexclient.ArchiveLocation{
			Path:      audit.Location.Path,
			Year:      audit.Location.Year,
			ProcessID: audit.Location.ProcessID,
			Name:      audit.Location.Name,
		},
		OK: audit.OK,
		Report: annexclient.AuditReport{
			RootHash:       audit.Report.RootHash,
			StoredRootHash: audit.Report.StoredRootHash,
			Missing:        audit.Report.Missing,
			Unlisted:       audit.Report.Unlisted,
		},
	}
	for _, check := range audit.Report.Members {
		response.Report.Members = append(response.Report.Members, annexclient.MemberCheck(check))
	}
	return response, nil
}

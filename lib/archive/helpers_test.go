// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/bureau-foundation/annex/lib/clock"
	"github.com/bureau-foundation/annex/lib/manifest"
	"github.com/bureau-foundation/annex/lib/testutil"
)

func discardLogger() *slog.Logger {
	return testutil.DiscardLogger()
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	testutil.WriteFile(t, filepath.Dir(path), filepath.Base(path), content)
}

// caseFolder creates <tmp>/cases/2024.1234567-case/auto1 with the two
// eligible files from the reference scenario plus one ineligible file.
func caseFolder(t *testing.T) (sourceRoot, folder string) {
	t.Helper()
	sourceRoot = filepath.Join(t.TempDir(), "cases")
	folder = filepath.Join(sourceRoot, "2024.1234567-case", "auto1")
	writeFile(t, filepath.Join(folder, "hashlog.001"), "A")
	writeFile(t, filepath.Join(folder, "Lista de Arquivos.csv"), "B")
	writeFile(t, filepath.Join(folder, "sub", "hashlog.002"), "C")
	writeFile(t, filepath.Join(folder, "laudo.pdf"), "not packaged")
	return sourceRoot, folder
}

func buildManifest(t *testing.T, folder string) *manifest.Manifest {
	t.Helper()
	files, err := manifest.NewScanner().Scan(folder)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	built, err := manifest.Build(context.Background(), files)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return built
}

func testWriter(destination string, year int) (*Writer, *clock.FakeClock) {
	fake := clock.Fake(time.Date(year, 6, 15, 12, 0, 0, 0, time.UTC))
	return &Writer{
		DestinationBase: destination,
		Clock:           fake,
		Logger:          discardLogger(),
	}, fake
}

// zipMember is one entry for writeZip.
type zipMember struct {
	name    string
	content string
}

// writeZip writes a deflate zip with the given members in order.
func writeZip(t *testing.T, path string, members ...zipMember) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer file.Close()

	zipWriter := zip.NewWriter(file)
	for _, member := range members {
		writer, err := zipWriter.Create(member.name)
		if err != nil {
			t.Fatalf("Create member %s: %v", member.name, err)
		}
		if _, err := io.WriteString(writer, member.content); err != nil {
			t.Fatalf("Write member %s: %v", member.name, err)
		}
	}
	if err := zipWriter.Close(); err != nil {
		t.Fatalf("Close zip: %v", err)
	}
}

// memberNames lists the entries of the archive at path in order.
func memberNames(t *testing.T, path string) []string {
	t.Helper()
	archiveReader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer archiveReader.Close()

	names := make([]string, len(archiveReader.File))
	for index, member := range archiveReader.File {
		names[index] = member.Name
	}
	return names
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// Compression selects how archive members are compressed.
type Compression string

const (
	// CompressionDeflate is standard zip deflate at the highest level.
	// Every zip tool can read it. This is the default.
	CompressionDeflate Compression = "deflate"

	// CompressionZstd uses zip method 93 (Zstandard). Smaller and
	// faster for large hash logs, but older unzip tools cannot read
	// it.
	CompressionZstd Compression = "zstd"

	// CompressionStore writes members uncompressed.
	CompressionStore Compression = "store"
)

// ParseCompression parses a compression name. The empty string selects
// CompressionDeflate.
func ParseCompression(name string) (Compression, error) {
	switch Compression(name) {
	case "", CompressionDeflate:
		return CompressionDeflate, nil
	case CompressionZstd:
		return CompressionZstd, nil
	case CompressionStore:
		return CompressionStore, nil
	default:
		return "", fmt.Errorf("unknown archive compression %q (want deflate, zstd, or store)", name)
	}
}

// method returns the zip method number for c.
func (c Compression) method() uint16 {
	switch c {
	case CompressionZstd:
		return zstd.ZipMethodWinZip
	case CompressionStore:
		return zip.Store
	default:
		return zip.Deflate
	}
}

// registerCompressors installs the compressors a Writer needs. Deflate
// is overridden to use the best compression level, matching the
// archives produced before this package existed.
func registerCompressors(writer *zip.Writer) {
	writer.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})
	writer.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
}

// registerDecompressors lets a reader open zstd members. Deflate and
// store are built in.
func registerDecompressors(reader *zip.Reader) {
	reader.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
}

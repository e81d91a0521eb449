// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// DigestArchive returns the hex BLAKE3 hash of the archive file at
// path. This is a content address for the container as a whole: two
// archives with the same root hash but different bytes (recompressed,
// re-timestamped) have different archive digests. It is reported next
// to the root hash and never stored.
func DigestArchive(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for digest: %w", path, err)
	}
	defer file.Close()

	return digestStream(path, file)
}

func digestStream(name string, r io.Reader) (string, error) {
	hasher := blake3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("digesting %s: %w", name, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

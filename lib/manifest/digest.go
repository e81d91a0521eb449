// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// DigestLength is the length of a hex-encoded digest: 32 bytes of
// SHA-256, two characters per byte.
const DigestLength = 2 * sha256.Size

// DigestReader streams r through SHA-256 and returns the hex digest.
// Memory use is constant regardless of input size. Read failures are
// returned as *DigestError with the given name.
func DigestReader(name string, r io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", &DigestError{Path: name, Err: err}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// DigestFile computes the hex SHA-256 digest of the file at path. The
// file is closed before DigestFile returns, on success and on failure.
func DigestFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &DigestError{Path: path, Err: err}
	}
	defer file.Close()

	return DigestReader(path, file)
}

// RootHash returns the hex SHA-256 of data. Pass the manifest exactly
// as serialized or as stored in an archive; never a re-encoded form.
func RootHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IsDigest reports whether s has the shape of a hex digest produced by
// this package: DigestLength lowercase hexadecimal characters.
func IsDigest(s string) bool {
	if len(s) != DigestLength {
		return false
	}
	for index := 0; index < len(s); index++ {
		c := s[index]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Annex's CBOR encoding configuration.
//
// The HTTP API speaks JSON by default. A client that sends
// "Accept: application/cbor" receives the same response body encoded
// as CBOR instead, which the annex CLI prefers for its compact
// framing. Both formats share one set of struct tags: fxamacker/cbor
// reads `json` tags when `cbor` tags are absent, so response types
// carry only `json` tags.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same logical response always produces identical bytes.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
package codec

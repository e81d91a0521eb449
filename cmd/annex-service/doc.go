// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Annex-service is the HTTP front of Annex. A browsing frontend uses
// it to walk the source root, package a folder's hash logs into a
// year-partitioned archive, and later read the archive's root hash
// back.
//
// Configuration comes from the file named by --config or, failing
// that, ANNEX_CONFIG. The service listens on server.host:server.port
// (default 0.0.0.0:3001).
//
// # Endpoints
//
//	GET  /api/folders?path=P         children of folder P
//	POST /api/archives {"path": P}   package folder P
//	GET  /api/root-hash?path=P       root hash of P's newest archive
//	GET  /api/archive-status?path=P  whether P has an archive
//	GET  /api/audit?path=P           re-hash every member of P's archive
//	GET  /healthz                    liveness
//
// Responses are JSON unless the request's Accept header names
// application/cbor. Errors carry {"error": "..."} with status 400 for
// unusable input (no process folder in the path, nothing to package),
// 403 for paths escaping the source root, 404 for missing folders or
// archives, and 500 otherwise.
package main

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for Annex.
//
// Configuration is loaded from a single file specified by either the
// ANNEX_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Production is stricter in validation:
// a wildcard CORS origin is rejected.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${ROOT_PATH}, and ${VAR:-default} patterns are expanded, so
// a deployment that exports ROOT_PATH and TARGET_PATH can write
//
//	paths:
//	  source_root: ${ROOT_PATH}
//	  destination_base: ${TARGET_PATH:-/srv/annex/archives}
//
// No other environment variables override config values. Components
// receive the loaded [Config] (or values derived from it) at
// construction and never read the environment themselves.
//
// This package depends on no other Annex packages.
package config

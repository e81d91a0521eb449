// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"testing"
)

func TestReportFormat(t *testing.T) {
	var output bytes.Buffer
	report(&output, errors.New("paths.source_root is required"))

	if got, want := output.String(), "error: paths.source_root is required\n"; got != want {
		t.Errorf("report wrote %q, want %q", got, want)
	}
}

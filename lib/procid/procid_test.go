// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package procid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"bare identifier", "2024.1234567", true},
		{"suffixed identifier", "2024.1234567-case", true},
		{"long suffix", "2020.0000001 laudo pericial", true},
		{"six digits", "2024.123456", false},
		{"three digit year", "202.1234567", false},
		{"missing dot", "20241234567", false},
		{"prefixed", "x2024.1234567", false},
		{"empty", "", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Match(test.input); got != test.want {
				t.Errorf("Match(%q) = %v, want %v", test.input, got, test.want)
			}
		})
	}
}

func TestResolveDeepestWins(t *testing.T) {
	segments := []string{"2019.7654321-old", "nested", "2024.1234567-case", "auto1"}

	got, err := Resolve(segments)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "2024.1234567-case" {
		t.Errorf("Resolve = %q, want the deepest process folder", got)
	}
}

func TestResolveNoMatch(t *testing.T) {
	_, err := Resolve([]string{"cases", "auto1"})

	var resolutionErr *ResolutionError
	if !errors.As(err, &resolutionErr) {
		t.Fatalf("Resolve error = %v, want *ResolutionError", err)
	}
	if resolutionErr.Path != "cases/auto1" {
		t.Errorf("ResolutionError.Path = %q, want %q", resolutionErr.Path, "cases/auto1")
	}
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"subfolder", "2024.1234567-case/auto1", "2024.1234567-case", false},
		{"process folder", "2024.1234567-case", "2024.1234567-case", false},
		{"deep subfolder", "region/2024.1234567/a/b/c/d", "2024.1234567", false},
		{"trailing slash", "2024.1234567/auto1/", "2024.1234567", false},
		{"leading slash", "/2024.1234567/auto1", "2024.1234567", false},
		{"no process folder", "misc/auto1", "", true},
		{"empty", "", "", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := FromPath(test.path)
			if test.wantErr {
				if err == nil {
					t.Fatalf("FromPath(%q) = %q, want error", test.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromPath(%q): %v", test.path, err)
			}
			if got != test.want {
				t.Errorf("FromPath(%q) = %q, want %q", test.path, got, test.want)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	got := Segments("/a//b/./c/")
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Segments mismatch (-want +got):\n%s", diff)
	}

	if got := Segments(""); len(got) != 0 {
		t.Errorf("Segments(\"\") = %v, want empty", got)
	}
}

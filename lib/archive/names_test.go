// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import "testing"

func TestLeaf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"2024.1234567-case/auto1", "auto1"},
		{"2024.1234567-case/auto1/", "auto1"},
		{"2024.1234567-case/a/b/deep", "deep"},
		{"2024.1234567-case", RootLeaf},
		{"region/2024.1234567", RootLeaf},
		{"", RootLeaf},
	}
	for _, test := range tests {
		if got := Leaf(test.path); got != test.want {
			t.Errorf("Leaf(%q) = %q, want %q", test.path, got, test.want)
		}
	}
}

func TestNameForPath(t *testing.T) {
	if got := NameForPath("2024.1234567-case/auto1"); got != "anexo-laudo-auto1.zip" {
		t.Errorf("NameForPath = %q, want anexo-laudo-auto1.zip", got)
	}
	if got := NameForPath("2024.1234567-case"); got != "anexo-laudo-raiz.zip" {
		t.Errorf("NameForPath(process folder) = %q, want anexo-laudo-raiz.zip", got)
	}
}

func TestIsYear(t *testing.T) {
	for name, want := range map[string]bool{
		"2025":  true,
		"0000":  true,
		"202":   false,
		"20255": false,
		"2O25":  false,
		"":      false,
	} {
		if got := IsYear(name); got != want {
			t.Errorf("IsYear(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseCompression(t *testing.T) {
	for input, want := range map[string]Compression{
		"":        CompressionDeflate,
		"deflate": CompressionDeflate,
		"zstd":    CompressionZstd,
		"store":   CompressionStore,
	} {
		got, err := ParseCompression(input)
		if err != nil {
			t.Errorf("ParseCompression(%q): %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCompression(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := ParseCompression("lzma"); err == nil {
		t.Error("ParseCompression should reject unknown names")
	}
}

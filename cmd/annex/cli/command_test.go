// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesToSubcommand(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "annex",
		Subcommands: []*Command{
			{
				Name: "verify",
				Run: func(ctx context.Context, args []string) error {
					called = "verify"
					receivedArgs = args
					return nil
				},
			},
			{
				Name: "package",
				Run: func(ctx context.Context, args []string) error {
					called = "package"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"verify", "2024.1234567/auto1"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "verify" {
		t.Errorf("dispatched to %q, want verify", called)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "2024.1234567/auto1" {
		t.Errorf("args = %v", receivedArgs)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	var deep bool
	var positional []string

	command := &Command{
		Name: "verify",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flagSet.BoolVar(&deep, "deep", false, "audit every member")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"caso", "--deep"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !deep {
		t.Error("--deep was not parsed")
	}
	if len(positional) != 1 || positional[0] != "caso" {
		t.Errorf("positional args = %v", positional)
	}
}

func TestExecuteUnknownFlag(t *testing.T) {
	command := &Command{
		Name: "probe",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("probe", pflag.ContinueOnError)
		},
		Run: func(ctx context.Context, args []string) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--deeep"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "Run 'probe --help'") {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestExecuteSuggestsCommand(t *testing.T) {
	root := &Command{
		Name: "annex",
		Subcommands: []*Command{
			{Name: "verify", Run: func(context.Context, []string) error { return nil }},
			{Name: "package", Run: func(context.Context, []string) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"verfy"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), `did you mean "verify"`) {
		t.Errorf("Execute() error = %v", err)
	}

	err = root.Execute(context.Background(), []string{"zzzzzzzz"}, &bytes.Buffer{})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("Execute() error = %v, want no suggestion", err)
	}
}

func TestExecuteWithoutSubcommandPrintsHelp(t *testing.T) {
	root := &Command{
		Name:    "annex",
		Summary: "Package and verify hash-log archives",
		Subcommands: []*Command{
			{Name: "probe", Summary: "Report whether an archive exists"},
		},
	}

	var help bytes.Buffer
	err := root.Execute(context.Background(), nil, &help)
	if err == nil {
		t.Fatal("Execute() without subcommand returned nil")
	}
	for _, want := range []string{"Usage:\n  annex <command> [flags]", "probe", "Report whether an archive exists"} {
		if !strings.Contains(help.String(), want) {
			t.Errorf("help output missing %q:\n%s", want, help.String())
		}
	}
}

func TestHelpFlagPrintsFlags(t *testing.T) {
	command := &Command{
		Name:  "verify",
		Usage: "annex verify <path> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flagSet.Bool("deep", false, "audit every member")
			return flagSet
		},
		Examples: []Example{{Description: "Audit an archive", Command: "annex verify --deep 2024.1234567"}},
		Run:      func(context.Context, []string) error { return errors.New("must not run") },
	}

	var help bytes.Buffer
	if err := command.Execute(context.Background(), []string{"--help"}, &help); err != nil {
		t.Fatalf("Execute(--help) error: %v", err)
	}
	for _, want := range []string{"annex verify <path> [flags]", "--deep", "# Audit an archive"} {
		if !strings.Contains(help.String(), want) {
			t.Errorf("help output missing %q:\n%s", want, help.String())
		}
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"verify", "verify", 0},
		{"verfy", "verify", 1},
		{"probe", "prune", 2},
	}
	for _, test := range tests {
		if got := editDistance(test.a, test.b); got != test.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestEmitJSON(t *testing.T) {
	var output JSONOutput
	var buffer bytes.Buffer

	if done, _ := output.EmitJSON(&buffer, []string{"x"}); done {
		t.Fatal("EmitJSON wrote output without --json")
	}

	output.OutputJSON = true
	var entries []string
	done, err := output.EmitJSON(&buffer, entries)
	if !done || err != nil {
		t.Fatalf("EmitJSON() = %v, %v", done, err)
	}
	if strings.TrimSpace(buffer.String()) != "[]" {
		t.Errorf("nil slice encoded as %q, want []", buffer.String())
	}
}

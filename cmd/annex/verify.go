// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/annex/cmd/annex/cli"
	"github.com/bureau-foundation/annex/lib/annexclient"
)

type verifyFlags struct {
	connectionFlags
	deep   bool
	expect string
}

// verifyResult is the --json shape of "annex verify". Audit is set
// only with --deep.
type verifyResult struct {
	Verification *annexclient.RootHashResponse `json:"verification"`
	Matches      *bool                         `json:"matches,omitempty"`
	Audit        *annexclient.AuditResponse    `json:"audit,omitempty"`
}

func (app *application) verifyCommand() *cli.Command {
	var flags verifyFlags

	return &cli.Command{
		Name:    "verify",
		Summary: "Report the root hash of a folder's newest archive",
		Description: `Find the newest archive for the folder (latest year partition first)
and report its root hash: the stored root_hash.txt value when present,
otherwise the SHA-256 of the archived manifest.

With --expect, exit 1 unless the root hash matches. With --deep, also
re-hash every archive member against its manifest line and exit 1 on
any discrepancy.`,
		Usage: "annex verify <path> [flags]",
		Examples: []cli.Example{
			{Description: "Check a root hash quoted in a report", Command: "annex verify 2024.1234567-caso/auto1 --expect 3f2a..."},
			{Description: "Audit every archived file", Command: "annex verify --deep 2024.1234567-caso/auto1"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flags.register(flagSet)
			flagSet.BoolVar(&flags.deep, "deep", false, "re-hash every archive member against the manifest")
			flagSet.StringVar(&flags.expect, "expect", "", "exit 1 unless the root hash equals this value")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			logicalPath, err := singlePath(args, false)
			if err != nil {
				return err
			}
			target, err := app.connect(&flags.connectionFlags)
			if err != nil {
				return err
			}

			verification, err := target.RootHash(ctx, logicalPath)
			if err != nil {
				return err
			}
			result := verifyResult{Verification: verification}
			failed := false

			if flags.expect != "" {
				matches := strings.EqualFold(strings.TrimSpace(flags.expect), verification.RootHash)
				result.Matches = &matches
				failed = !matches
			}
			if flags.deep {
				audit, err := target.Audit(ctx, logicalPath)
				if err != nil {
					return err
				}
				result.Audit = audit
				failed = failed || !audit.OK
			}

			if done, err := flags.EmitJSON(app.stdout, result); done {
				if err != nil {
					return err
				}
				return exitIf(failed)
			}

			app.printVerification(verification)
			if result.Matches != nil {
				if *result.Matches {
					fmt.Fprintf(app.stdout, "matches expected root hash\n")
				} else {
					fmt.Fprintf(app.stdout, "MISMATCH: expected %s\n", flags.expect)
				}
			}
			if result.Audit != nil {
				app.printAudit(result.Audit)
			}
			return exitIf(failed)
		},
	}
}

func (app *application) printVerification(verification *annexclient.RootHashResponse) {
	fmt.Fprintf(app.stdout, "root hash:      %s (%s)\n", verification.RootHash, verification.Source)
	fmt.Fprintf(app.stdout, "archive:        %s (year %s)\n", verification.Location, verification.Year)
	fmt.Fprintf(app.stdout, "archive digest: %s\n", verification.ArchiveDigest)
}

func (app *application) printAudit(audit *annexclient.AuditResponse) {
	for _, check := range audit.Report.Members {
		status := "ok "
		if !check.Match {
			status = "BAD"
		}
		fmt.Fprintf(app.stdout, "  %s %s\n", status, check.Member)
	}
	for _, path := range audit.Report.Missing {
		fmt.Fprintf(app.stdout, "  MISSING %s\n", path)
	}
	for _, member := range audit.Report.Unlisted {
		fmt.Fprintf(app.stdout, "  UNLISTED %s\n", member)
	}
	if stored := audit.Report.StoredRootHash; stored != "" && stored != audit.Report.RootHash {
		fmt.Fprintf(app.stdout, "  stored root hash %s differs from manifest hash %s\n", stored, audit.Report.RootHash)
	}
	if audit.OK {
		fmt.Fprintf(app.stdout, "audit passed: %d members\n", len(audit.Report.Members))
	} else {
		fmt.Fprintf(app.stdout, "audit FAILED\n")
	}
}

func exitIf(failed bool) error {
	if failed {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

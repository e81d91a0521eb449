// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/annex/cmd/annex/cli"
)

func (app *application) probeCommand() *cli.Command {
	var flags connectionFlags

	return &cli.Command{
		Name:    "probe",
		Summary: "Report whether a folder has an archive",
		Description: `Check the year partitions for the folder's archive without opening it.
Prints "hasZip" with the archive name and year, "empty" when there is
no archive, or "invalid" when the path has no process folder. Exits 1
unless an archive exists.`,
		Usage: "annex probe <path> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("probe", pflag.ContinueOnError)
			flags.register(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			logicalPath, err := singlePath(args, false)
			if err != nil {
				return err
			}
			target, err := app.connect(&flags)
			if err != nil {
				return err
			}

			status, err := target.ArchiveStatus(ctx, logicalPath)
			if err != nil {
				return err
			}
			found := status.Status == "hasZip"

			if done, err := flags.EmitJSON(app.stdout, status); done {
				if err != nil {
					return err
				}
				return exitIf(!found)
			}

			if found {
				fmt.Fprintf(app.stdout, "%s %s (%s)\n", status.Status, status.ArchiveName, status.Year)
			} else {
				fmt.Fprintf(app.stdout, "%s\n", status.Status)
			}
			return exitIf(!found)
		},
	}
}

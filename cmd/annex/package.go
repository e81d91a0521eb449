// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/annex/cmd/annex/cli"
)

func (app *application) packageCommand() *cli.Command {
	var flags connectionFlags

	return &cli.Command{
		Name:    "package",
		Summary: "Package a folder's hash logs into an archive",
		Description: `Scan the folder for hash logs, write their SHA-256 manifest, and store
files and manifest as anexo-laudo-<folder>.zip in this year's partition.
An existing archive with the same name in the same year is replaced.`,
		Usage: "annex package <path> [flags]",
		Examples: []cli.Example{
			{Description: "Package one report folder", Command: "annex package 2024.1234567-caso/auto1"},
			{Description: "Package through a remote service", Command: "annex package --server http://laudos:3001 2024.1234567-caso"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("package", pflag.ContinueOnError)
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

			result, err := target.Package(ctx, logicalPath)
			if err != nil {
				return err
			}
			if done, err := flags.EmitJSON(app.stdout, result); done {
				return err
			}

			fmt.Fprintf(app.stdout, "packaged %s\n", logicalPath)
			fmt.Fprintf(app.stdout, "  archive:        %s\n", result.Location)
			fmt.Fprintf(app.stdout, "  root hash:      %s\n", result.RootHash)
			fmt.Fprintf(app.stdout, "  archive digest: %s\n", result.ArchiveDigest)
			fmt.Fprintf(app.stdout, "  files:          %d (%s)\n", result.Files, humanize.Bytes(uint64(result.Size)))
			return nil
		},
	}
}

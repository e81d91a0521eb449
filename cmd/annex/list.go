// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/annex/cmd/annex/cli"
)

func (app *application) listCommand() *cli.Command {
	var flags connectionFlags

	return &cli.Command{
		Name:    "list",
		Summary: "List a folder under the source root",
		Usage:   "annex list [path] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.register(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			logicalPath, err := singlePath(args, true)
			if err != nil {
				return err
			}
			target, err := app.connect(&flags)
			if err != nil {
				return err
			}

			entries, err := target.List(ctx, logicalPath)
			if err != nil {
				return err
			}
			if done, err := flags.EmitJSON(app.stdout, entries); done {
				return err
			}

			table := tabwriter.NewWriter(app.stdout, 2, 0, 2, ' ', 0)
			for _, entry := range entries {
				kind := "file"
				if entry.IsDirectory {
					kind = "dir"
				}
				fmt.Fprintf(table, "%s\t%s\n", kind, entry.RelativePath)
			}
			return table.Flush()
		},
	}
}

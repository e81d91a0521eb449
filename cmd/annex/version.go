// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/annex/cmd/annex/cli"
	"github.com/bureau-foundation/annex/lib/version"
)

func (app *application) versionCommand() *cli.Command {
	var output cli.JSONOutput

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			output.AddJSONFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if done, err := output.EmitJSON(app.stdout, version.Current()); done {
				return err
			}
			fmt.Fprintf(app.stdout, "annex %s\n", version.Full())
			return nil
		},
	}
}

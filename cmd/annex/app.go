// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/annex/cmd/annex/cli"
	"github.com/bureau-foundation/annex/lib/annex"
	"github.com/bureau-foundation/annex/lib/annexclient"
	"github.com/bureau-foundation/annex/lib/clock"
	"github.com/bureau-foundation/annex/lib/config"
)

// application carries what every command needs. Tests replace the
// output, clock, and logger.
type application struct {
	stdout io.Writer
	clock  clock.Clock

	// logger overrides the command logger built from the config's
	// log level. Nil in production.
	logger *slog.Logger
}

// backend is the set of operations a command can run, either in
// process or against a remote service.
type backend interface {
	Package(ctx context.Context, logicalPath string) (*annexclient.PackageResponse, error)
	RootHash(ctx context.Context, logicalPath string) (*annexclient.RootHashResponse, error)
	ArchiveStatus(ctx context.Context, logicalPath string) (*annexclient.ArchiveStatusResponse, error)
	List(ctx context.Context, logicalPath string) ([]annexclient.FolderEntry, error)
	Audit(ctx context.Context, logicalPath string) (*annexclient.AuditResponse, error)
}

// connectionFlags are shared by every command that reaches a backend.
type connectionFlags struct {
	cli.JSONOutput
	configPath string
	server     string
	cbor       bool
}

func (f *connectionFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.configPath, "config", "", "path to annex.yaml (default: $ANNEX_CONFIG)")
	flagSet.StringVar(&f.server, "server", "", "annex-service URL; when set, work remotely instead of on local disk")
	flagSet.BoolVar(&f.cbor, "cbor", false, "request CBOR responses from --server")
	f.AddJSONFlag(flagSet)
}

// connect returns a remote backend when --server is set and a local
// one built from the configuration otherwise.
func (app *application) connect(flags *connectionFlags) (backend, error) {
	if flags.server != "" {
		var options []annexclient.Option
		if flags.cbor {
			options = append(options, annexclient.WithCBOR())
		}
		client, err := annexclient.New(flags.server, options...)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := app.logger
	if logger == nil {
		level, err := cfg.LogLevel()
		if err != nil {
			return nil, err
		}
		logger = cli.NewCommandLogger(level)
	}

	service, err := annex.New(cfg, app.clock, logger)
	if err != nil {
		return nil, err
	}
	return &localBackend{service: service}, nil
}

func (app *application) rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "annex",
		Summary: "Package and verify hash-log archives",
		Description: `Annex packages the hash logs of a process folder into a zip archive
holding a SHA-256 manifest, and later reports the archive's root hash.

Paths are logical: relative to the configured source root, with a
process folder (NNNN.NNNNNNN...) somewhere along the way.`,
		Subcommands: []*cli.Command{
			app.packageCommand(),
			app.verifyCommand(),
			app.probeCommand(),
			app.listCommand(),
			app.versionCommand(),
		},
	}
}

// singlePath returns the one logical path a command accepts. Listing
// allows it to be omitted for the source root.
func singlePath(args []string, optional bool) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case len(args) == 0 && optional:
		return "", nil
	case len(args) == 0:
		return "", fmt.Errorf("a logical path is required")
	default:
		return "", fmt.Errorf("expected one logical path, got %d arguments", len(args))
	}
}

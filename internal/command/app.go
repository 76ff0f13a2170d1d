// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/config"
	"github.com/svctl/svctl/internal/meta"
	"github.com/svctl/svctl/internal/util"
)

// InitApp wires up the command tree. The subcommand name doubles as the
// config namespace for the rest of the run.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// Save the CWD at startup and then defer restoring it so we're tidy.
	sd, _ := os.Getwd()
	defer func() {
		if err := os.Chdir(sd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to restore directory: %v\n", err)
		}
	}()

	ns := commandNamespace(args)

	cfg, _ := config.Load()
	cfg.Namespace = ns
	config.Config.Namespace = ns

	m := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}
	if err := resolveRootDir(&m, ns, args, sd); err != nil {
		return nil, err
	}

	app := &cli.Command{
		Name:  "svctl",
		Usage: "SemVer Control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "svctl version info",
				HideDefault: true,
			},
		},
		Commands: []*cli.Command{
			validateCommandBuilder(m),
			cleanCommandBuilder(m),
			compareCommandBuilder(m),
			satisfiesCommandBuilder(m),
			uqCommandBuilder(m),
			rqCommandBuilder(m),
			diffCommandBuilder(m),
			siCommandBuilder(m),
			pushCommandBuilder(m),
			completionCommandBuilder(m),
		},
	}

	sortCommandFlags(app)

	return app, nil
}

// commandNamespace extracts the subcommand from args. A flag in that slot,
// -h for example, means no namespace.
func commandNamespace(args []string) string {
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		return args[1]
	}
	return ""
}

// resolveRootDir fills in the RootDir spec for the directory-scoped commands.
// Everything else takes plain positionals (versions, ranges, manifests, a
// shell name) that must not be mistaken for directories, and runs from the
// starting directory.
func resolveRootDir(m *meta.Meta, ns string, args []string, fallback string) error {
	m.RootDir = fallback
	if ns != "rq" && ns != "push" {
		return nil
	}
	if len(args) <= 2 || strings.HasPrefix(args[2], "-") {
		return nil
	}

	wd, branch, err := util.ParseRootDir(args[2])
	if err != nil {
		return fmt.Errorf("failed to parse rootDir (%s): %w", args[2], err)
	}
	m.RootDir = wd
	m.Branch = branch
	return nil
}

// sortCommandFlags orders each command's flags for the --help text.
func sortCommandFlags(app *cli.Command) {
	for _, cmd := range app.Commands {
		slices.SortFunc(cmd.Flags, func(a, b cli.Flag) int {
			return strings.Compare(a.Names()[0], b.Names()[0])
		})
	}
}

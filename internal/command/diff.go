// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/differ"
	"github.com/svctl/svctl/internal/manifest"
	"github.com/svctl/svctl/internal/meta"
)

// diffCommandAction is the action handler for the "diff" subcommand. Given
// two manifests it diffs them directly; given a directory it offers an
// interactive picker over the manifests found there.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}

	path := cmd.String("path")
	args := cmd.Args().Slice()

	var left, right *manifest.Manifest
	switch len(args) {
	case 2:
		var err error
		if left, err = manifest.Load(args[0], path); err != nil {
			return err
		}
		if right, err = manifest.Load(args[1], path); err != nil {
			return err
		}
	case 1:
		var err error
		if left, right, err = pickManifests(args[0], path); err != nil {
			return err
		}
		// The picker returns nothing when the user bails out.
		if left == nil {
			return nil
		}
	default:
		return fmt.Errorf("diff takes two manifests or a directory")
	}

	return differ.Diff(ctx, cmd, left.JSON, right.JSON)
}

// pickManifests loads every manifest under dir and runs the interactive
// picker. Files that do not load as manifests are skipped.
func pickManifests(dir string, path string) (*manifest.Manifest, *manifest.Manifest, error) {
	files, err := differ.FindManifests(dir)
	if err != nil {
		return nil, nil, err
	}

	items := make([]*manifest.Manifest, 0, len(files))
	for _, f := range files {
		m, err := manifest.Load(f, path)
		if err != nil {
			log.Debugf("skipping %s: %v", f, err)
			continue
		}
		items = append(items, m)
	}
	if len(items) < 2 {
		return nil, nil, fmt.Errorf("need at least two readable manifests in %s", dir)
	}

	selected := differ.SelectManifests(items)
	if len(selected) != 2 {
		return nil, nil, nil
	}

	return selected[0], selected[1], nil
}

// diffCommandBuilder constructs the "diff" subcommand.
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "diff release manifests",
		UsageText: "svctl diff <manifest> <manifest> | svctl diff <dir>",
		Metadata:  map[string]any{"meta": meta},
		Flags: []cli.Flag{
			tldrFlag,
			&cli.BoolFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "colorize text output",
				Value:   false,
			},
			NewPathFlag("diff", meta.Config.Source),
			&cli.StringFlag{
				Name:   "diff_filter",
				Usage:  "comma-separated top-level keys to drop from the diff",
				Value:  "generated",
				Hidden: true,
			},
		},
		Action: diffCommandAction,
	}
}

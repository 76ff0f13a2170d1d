// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/meta"
	"github.com/svctl/svctl/internal/semver"
)

// cleanDefaultAttrs specifies the default attributes displayed for cleaned
// versions. The bare canonical form is the point of the command, so the
// original input stays opt-in.
var cleanDefaultAttrs = []string{".cleaned"}

// CleanedVersion pairs an input with its canonical form.
type CleanedVersion struct {
	Version string `json:"version"`
	Cleaned string `json:"cleaned"`
}

// cleanVersions normalizes every input. The first input that fits none of the
// accepted shapes fails the whole batch.
func cleanVersions(versions []string) ([]CleanedVersion, error) {
	var results []CleanedVersion

	for _, s := range versions {
		c, err := semver.Clean(s)
		if err != nil {
			return nil, err
		}
		results = append(results, CleanedVersion{Version: s, Cleaned: c})
	}

	return results, nil
}

// cleanCommandAction is the action handler for the "clean" subcommand. It
// normalizes versions from argv or stdin into canonical form and emits them
// per common flags.
func cleanCommandAction(ctx context.Context, cmd *cli.Command) error {
	return runQuery(ctx, cmd, "clean", reflect.TypeOf(CleanedVersion{}), cleanDefaultAttrs,
		func(ctx context.Context, cmd *cli.Command) ([]CleanedVersion, error) {
			versions, err := versionArgs(cmd)
			if err != nil {
				return nil, err
			}
			return cleanVersions(versions)
		})
}

// cleanCommandBuilder constructs the cli.Command for "clean", wiring
// metadata, flags, and action handlers.
func cleanCommandBuilder(meta meta.Meta) *cli.Command {
	return newQueryCommand(meta, "clean", "normalize versions to canonical form",
		"svctl clean [version...] [options]", nil, cleanCommandAction)
}

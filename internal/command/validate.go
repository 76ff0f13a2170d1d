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

// validateDefaultAttrs specifies the default attributes displayed for parsed
// versions.
var validateDefaultAttrs = []string{".version", ".major", ".minor", ".patch", ".prerelease", ".build"}

// ParsedVersion is a well-formed version broken into its components.
type ParsedVersion struct {
	Version    string `json:"version"`
	Major      int    `json:"major"`
	Minor      int    `json:"minor"`
	Patch      int    `json:"patch"`
	Prerelease string `json:"prerelease"`
	Build      string `json:"build"`
}

// parseVersions parses every input against the strict grammar. The first
// malformed input fails the whole batch.
func parseVersions(versions []string) ([]ParsedVersion, error) {
	var results []ParsedVersion

	for _, s := range versions {
		v, err := semver.Parse(s)
		if err != nil {
			return nil, err
		}
		results = append(results, ParsedVersion{
			Version:    s,
			Major:      v.Major,
			Minor:      v.Minor,
			Patch:      v.Patch,
			Prerelease: v.Prerelease,
			Build:      v.Build,
		})
	}

	return results, nil
}

// validateCommandAction is the action handler for the "validate" subcommand.
// It parses versions from argv or stdin and emits their components per
// common flags. Any malformed input fails the run.
func validateCommandAction(ctx context.Context, cmd *cli.Command) error {
	return runQuery(ctx, cmd, "validate", reflect.TypeOf(ParsedVersion{}), validateDefaultAttrs,
		func(ctx context.Context, cmd *cli.Command) ([]ParsedVersion, error) {
			versions, err := versionArgs(cmd)
			if err != nil {
				return nil, err
			}
			return parseVersions(versions)
		})
}

// validateCommandBuilder constructs the cli.Command for "validate", wiring
// metadata, flags, and action handlers.
func validateCommandBuilder(meta meta.Meta) *cli.Command {
	return newQueryCommand(meta, "validate", "validate versions",
		"svctl validate [version...] [options]", nil, validateCommandAction)
}

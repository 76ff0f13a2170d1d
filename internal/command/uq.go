// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/manifest"
	"github.com/svctl/svctl/internal/meta"
	"github.com/svctl/svctl/internal/semver"
)

// uqDefaultAttrs specifies the default attributes displayed for releases in
// the "uq" command output.
var uqDefaultAttrs = []string{".version", ".released", ".channel"}

// uqCommandAction is the action handler for the "uq" subcommand. It loads a
// release manifest, selects the entries in the upgrade window, and emits
// results per common flags.
func uqCommandAction(ctx context.Context, cmd *cli.Command) error {
	return runQuery(ctx, cmd, "uq", reflect.TypeOf(manifest.Entry{}), uqDefaultAttrs, uqFetch)
}

// uqFetch loads the manifest and returns the releases in the upgrade window,
// oldest first, optionally narrowed by --satisfies.
func uqFetch(ctx context.Context, cmd *cli.Command) ([]manifest.Entry, error) {
	m, err := manifest.Load(manifestSource(cmd), cmd.String("path"))
	if err != nil {
		return nil, err
	}

	from, to, err := resolveWindow(m, cmd.String("from"), cmd.String("to"))
	if err != nil {
		return nil, err
	}

	entries, err := upgradeEntries(m, from, to)
	if err != nil {
		return nil, err
	}

	if rangeExpr := cmd.String("satisfies"); rangeExpr != "" {
		entries, err = filterSatisfying(entries, rangeExpr)
		if err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// resolveWindow resolves the from and to specs against the manifest. to
// defaults to the most recent release; from defaults to the floor, so an
// unbounded query covers the whole release history.
func resolveWindow(m *manifest.Manifest, fromSpec string, toSpec string) (string, string, error) {
	from := "0"
	if fromSpec != "" {
		v, err := resolveBound(m, fromSpec)
		if err != nil {
			return "", "", fmt.Errorf("failed to resolve --from: %w", err)
		}
		from = v
	}

	if toSpec == "" {
		toSpec = "latest"
	}
	to, err := resolveBound(m, toSpec)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve --to: %w", err)
	}

	return from, to, nil
}

// resolveBound resolves one window bound. A well-formed version passes
// through untouched, so a bound does not have to correspond to a released
// version. Anything else resolves against the manifest: latest, latest~N, or
// a release line prefix.
func resolveBound(m *manifest.Manifest, spec string) (string, error) {
	if semver.Valid(spec) {
		return spec, nil
	}

	entries, err := manifest.Resolve(m, spec)
	if err != nil {
		return "", err
	}

	return entries[0].Version, nil
}

// upgradeEntries returns the manifest entries with from < version <= to,
// oldest first.
func upgradeEntries(m *manifest.Manifest, from string, to string) ([]manifest.Entry, error) {
	versions, err := m.Upgrades(from, to)
	if err != nil {
		return nil, err
	}

	// Index the releases so window versions map back to their entries.
	byVersion := make(map[string]manifest.Entry, len(m.Entries))
	for _, e := range m.Released() {
		if _, ok := byVersion[e.Version]; !ok {
			byVersion[e.Version] = e
		}
	}

	entries := make([]manifest.Entry, 0, len(versions))
	for _, v := range versions {
		if e, ok := byVersion[v]; ok {
			entries = append(entries, e)
		}
	}

	return entries, nil
}

// filterSatisfying keeps the entries whose version satisfies the range.
func filterSatisfying(entries []manifest.Entry, rangeExpr string) ([]manifest.Entry, error) {
	r, err := semver.ParseRange(rangeExpr)
	if err != nil {
		return nil, err
	}

	kept := make([]manifest.Entry, 0, len(entries))
	for _, e := range entries {
		v, err := semver.Parse(e.Version)
		if err != nil {
			continue
		}
		if r.Contains(v) {
			kept = append(kept, e)
		}
	}

	return kept, nil
}

// uqCommandBuilder constructs the cli.Command for "uq", wiring metadata,
// flags, and action handlers.
func uqCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		NewManifestFlag("uq", meta.Config.Source),
		NewPathFlag("uq", meta.Config.Source),
		&cli.StringFlag{
			Name:  "from",
			Usage: "exclude releases at or below this spec",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "exclude releases above this spec",
			Value: "latest",
		},
		&cli.StringFlag{
			Name:  "satisfies",
			Usage: "only include releases that satisfy this range",
		},
	}

	return newQueryCommand(meta, "uq", "upgrade query",
		"svctl uq [manifest] [options]", flags, uqCommandAction)
}

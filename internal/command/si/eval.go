// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package si implements the evaluator behind the interactive semver console.
package si

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/svctl/svctl/internal/manifest"
	"github.com/svctl/svctl/internal/semver"
)

// Console evaluates console lines against the engine and an optional release
// manifest. The zero value works; upgrade and latest queries then report
// that no manifest is loaded.
type Console struct {
	Manifest *manifest.Manifest
}

// Eval evaluates one console line and returns the rendered result. Errors
// come back as text since the console has nowhere else to put them.
func (c Console) Eval(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	op, args := strings.ToLower(fields[0]), fields[1:]

	switch op {
	case "validate":
		return evalValidate(args)
	case "clean":
		return evalClean(args)
	case "compare":
		return evalCompare(args)
	case "satisfies":
		return evalSatisfies(args)
	case "upgrades":
		return c.evalUpgrades(args)
	case "latest":
		return c.evalLatest(args)
	default:
		return fmt.Sprintf("unknown command %q. Type 'help' for syntax.", op)
	}
}

func evalValidate(args []string) string {
	if len(args) != 1 {
		return "usage: validate <version>"
	}

	v, err := semver.Parse(args[0])
	if err != nil {
		return err.Error()
	}

	return fmt.Sprintf("valid: %s", v)
}

func evalClean(args []string) string {
	if len(args) != 1 {
		return "usage: clean <version>"
	}

	cleaned, err := semver.Clean(args[0])
	if err != nil {
		return err.Error()
	}

	return cleaned
}

func evalCompare(args []string) string {
	if len(args) != 2 {
		return "usage: compare <a> <b>"
	}

	result, err := semver.Compare(args[0], args[1])
	if err != nil {
		return err.Error()
	}

	return strconv.Itoa(result)
}

func evalSatisfies(args []string) string {
	if len(args) < 2 {
		return "usage: satisfies <version> <range>"
	}

	// The range is everything after the version. Fields re-join with single
	// spaces, which the range grammar is happy with.
	r, err := semver.ParseRange(strings.Join(args[1:], " "))
	if err != nil {
		return err.Error()
	}

	cleaned, err := semver.Clean(args[0])
	if err != nil {
		return err.Error()
	}
	v, _ := semver.Parse(cleaned)

	return strconv.FormatBool(r.Contains(v))
}

func (c Console) evalUpgrades(args []string) string {
	if c.Manifest == nil {
		return "no manifest loaded"
	}
	if len(args) > 2 {
		return "usage: upgrades [from] [to]"
	}

	from := "0"
	if len(args) > 0 {
		var err error
		if from, err = resolveSpec(c.Manifest, args[0]); err != nil {
			return err.Error()
		}
	}

	to := "latest"
	if len(args) > 1 {
		to = args[1]
	}
	resolved, err := resolveSpec(c.Manifest, to)
	if err != nil {
		return err.Error()
	}

	versions, err := c.Manifest.Upgrades(from, resolved)
	if err != nil {
		return err.Error()
	}
	if len(versions) == 0 {
		return "no upgrades"
	}

	return strings.Join(versions, "\n")
}

func (c Console) evalLatest(args []string) string {
	if c.Manifest == nil {
		return "no manifest loaded"
	}
	if len(args) > 1 {
		return "usage: latest [spec]"
	}

	entries, err := manifest.Resolve(c.Manifest, args...)
	if err != nil {
		return err.Error()
	}

	e := entries[0]
	result := e.Version
	if e.Channel != "" {
		result += "  " + e.Channel
	}
	if e.Released != "" {
		result += "  " + e.Released
	}

	return result
}

// resolveSpec resolves a window bound to a concrete version. A well-formed
// version passes through untouched; anything else resolves against the
// manifest.
func resolveSpec(m *manifest.Manifest, spec string) (string, error) {
	if semver.Valid(spec) {
		return spec, nil
	}

	entries, err := manifest.Resolve(m, spec)
	if err != nil {
		return "", err
	}

	return entries[0].Version, nil
}

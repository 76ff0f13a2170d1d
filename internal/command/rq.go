// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/hclver"
	"github.com/svctl/svctl/internal/meta"
	"github.com/svctl/svctl/internal/semver"
)

// rqDefaultAttrs specifies the default attributes displayed for requirements
// in the "rq" command output.
var rqDefaultAttrs = []string{".file", ".address", ".constraint", ".satisfied"}

// RequirementStatus is a scanned version requirement plus its evaluation
// against the installed version.
type RequirementStatus struct {
	File       string `json:"file"`
	Address    string `json:"address"`
	Constraint string `json:"constraint"`
	Satisfied  string `json:"satisfied"`
}

// rqCommandAction is the action handler for the "rq" subcommand. It scans the
// RootDir for Terraform and OpenTofu version constraints, evaluates each
// against --installed, and emits results per common flags.
func rqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	fetcher := func(ctx context.Context, cmd *cli.Command) ([]RequirementStatus, error) {
		installed := cmd.String("installed")
		if installed != "" {
			if _, err := semver.Clean(installed); err != nil {
				return nil, fmt.Errorf("invalid installed version: %w", err)
			}
		}

		reqs, err := hclver.ScanDir(m.RootDir)
		if err != nil {
			return nil, err
		}

		return evaluateRequirements(reqs, installed), nil
	}

	return runQuery(ctx, cmd, "rq", reflect.TypeOf(RequirementStatus{}), rqDefaultAttrs, fetcher)
}

// evaluateRequirements normalizes each constraint into the range grammar and
// evaluates it against the installed version. Without an installed version
// the evaluation column reads "-". A constraint that does not translate
// evaluates false.
func evaluateRequirements(reqs []hclver.Requirement, installed string) []RequirementStatus {
	results := make([]RequirementStatus, 0, len(reqs))

	for _, req := range reqs {
		satisfied := "-"
		if installed != "" {
			normalized := hclver.NormalizeConstraint(req.Constraint)
			satisfied = strconv.FormatBool(semver.Satisfies(installed, normalized))
		}
		results = append(results, RequirementStatus{
			File:       req.File,
			Address:    req.Address,
			Constraint: req.Constraint,
			Satisfied:  satisfied,
		})
	}

	return results
}

// rqCommandBuilder constructs the cli.Command for "rq", wiring metadata,
// flags, and action handlers.
func rqCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "installed",
			Aliases: []string{"i"},
			Usage:   "version to evaluate each constraint against",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SVCTL_INSTALLED"),
			),
		},
	}

	return newQueryCommand(meta, "rq", "requirements query",
		"svctl rq [RootDir] [options]", flags, rqCommandAction)
}

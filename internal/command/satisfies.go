// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/meta"
	"github.com/svctl/svctl/internal/semver"
)

// ErrUnsatisfied is returned when the version does not satisfy the range.
// main maps it to its own exit code so scripts can branch on the result
// without parsing output.
var ErrUnsatisfied = errors.New("version does not satisfy range")

// satisfiesCommandAction is the action handler for the "satisfies"
// subcommand. It evaluates a version against a range expression and prints
// true or false. --quiet suppresses the printout and leaves only the exit
// status; a malformed version or range stays an error either way.
func satisfiesCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "satisfies") {
		return nil
	}

	args := cmd.Args().Slice()
	if len(args) != 2 {
		return fmt.Errorf("satisfies takes a version and a range")
	}

	r, err := semver.ParseRange(args[1])
	if err != nil {
		return err
	}

	v, err := semver.Parse(args[0])
	if err != nil {
		return err
	}

	quiet := cmd.Bool("quiet")

	if r.Contains(v) {
		if !quiet {
			fmt.Println("true")
		}
		return nil
	}

	if !quiet {
		fmt.Println("false")
	}

	return ErrUnsatisfied
}

// satisfiesCommandBuilder constructs the "satisfies" subcommand.
func satisfiesCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "satisfies",
		Usage:     "evaluate a version against a range",
		UsageText: "svctl satisfies <version> <range>",
		Metadata:  map[string]any{"meta": meta},
		Flags:     []cli.Flag{tldrFlag, quietFlag},
		Action:    satisfiesCommandAction,
	}
}

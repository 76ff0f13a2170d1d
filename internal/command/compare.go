// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/meta"
	"github.com/svctl/svctl/internal/semver"
)

// compareCommandAction is the action handler for the "compare" subcommand. It
// orders two versions and prints -1, 0, or 1.
func compareCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "compare") {
		return nil
	}

	args := cmd.Args().Slice()
	if len(args) != 2 {
		return fmt.Errorf("compare takes exactly two versions")
	}

	result, err := semver.Compare(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Println(result)

	return nil
}

// compareCommandBuilder constructs the "compare" subcommand.
func compareCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "order two versions",
		UsageText: "svctl compare <a> <b>",
		Metadata:  map[string]any{"meta": meta},
		Flags:     []cli.Flag{tldrFlag},
		Action:    compareCommandAction,
	}
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/meta"
)

// newQueryCommand assembles a cli.Command for a list-producing subcommand:
// the command's own flags plus tldr, schema and the shared query flags, with
// cross-flag validation in front of the action. app.go sorts the flags
// afterwards, so order here does not matter.
func newQueryCommand(
	m meta.Meta,
	name string,
	usage string,
	usageText string,
	flags []cli.Flag,
	action func(context.Context, *cli.Command) error,
) *cli.Command {
	all := append([]cli.Flag{tldrFlag, schemaFlag}, NewGlobalFlags()...)
	all = append(all, flags...)

	return &cli.Command{
		Name:      name,
		Usage:     usage,
		UsageText: usageText,
		Metadata:  map[string]any{"meta": m},
		Flags:     all,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: action,
	}
}

// runQuery executes the pipeline shared by the list-producing commands:
// resolve stored metadata, honor the --tldr and --schema short circuits,
// build the attribute list, fetch the rows, and hand them to the common
// output path. fetch supplies the command-specific data.
func runQuery[T any](
	ctx context.Context,
	cmd *cli.Command,
	name string,
	schemaType reflect.Type,
	defaultAttrs []string,
	fetch func(context.Context, *cli.Command) ([]T, error),
) error {
	m := GetMeta(cmd)
	log.Debugf("%s args: %v", name, m.Args)

	if ShortCircuitTLDR(ctx, cmd, name) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, schemaType) {
		return nil
	}

	attrs := BuildAttrs(cmd, defaultAttrs...)
	log.Debugf("attrs: %v", attrs)

	rows, err := fetch(ctx, cmd)
	if err != nil {
		return err
	}

	return EmitJSONSlice(rows, attrs, cmd)
}

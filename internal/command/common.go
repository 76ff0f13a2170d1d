// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/attrs"
	"github.com/svctl/svctl/internal/meta"
	"github.com/svctl/svctl/internal/output"
)

// BuildAttrs constructs an AttrList from the command's defaults plus any
// --attrs extras, then applies the global transform spec. A malformed spec
// drops out of the list rather than failing the command.
func BuildAttrs(cmd *cli.Command, defaults ...string) attrs.AttrList {
	var al attrs.AttrList
	for _, spec := range append(slices.Clone(defaults), cmd.String("attrs")) {
		if spec != "" {
			_ = al.Set(spec)
		}
	}
	_ = al.SetGlobalTransformSpec()
	return al
}

// DumpSchemaIfRequested writes the attribute listing for the provided type to
// stdout when --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if !cmd.Bool("schema") {
		return false
	}
	output.DumpSchema("", t, nil)
	return true
}

// EmitJSONSlice marshals a slice as JSON and passes it to the common output
// routine.
func EmitJSONSlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	if err := json.NewEncoder(&raw).Encode(results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	output.SliceDiceSpit(raw, al, cmd, "", os.Stdout, nil)
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	m, _ := cmd.Metadata["meta"].(meta.Meta)
	return m
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr svctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if !cmd.Bool("tldr") {
		return false
	}
	if inPath("tldr") {
		c := exec.CommandContext(ctx, "tldr", "svctl", subcmd)
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		_ = c.Run()
	}
	return true
}

// manifestSource resolves the manifest location from the positional argument,
// then the --manifest flag (which also carries the env and config file value
// sources), then stdin as the last resort.
func manifestSource(cmd *cli.Command) string {
	if args := cmd.Args().Slice(); len(args) > 0 {
		return args[0]
	}
	if m := cmd.String("manifest"); m != "" {
		return m
	}
	return "-"
}

// versionArgs returns the command's positional arguments, falling back to
// reading versions from stdin when none are given. A lone "-" argument also
// selects stdin.
func versionArgs(cmd *cli.Command) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return args, nil
	}
	return versionsFromInput(os.Stdin)
}

// versionsFromInput scans versions from the reader, one per line. Blank lines
// are skipped.
func versionsFromInput(input io.Reader) ([]string, error) {
	var versions []string

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		versions = append(versions, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return versions, nil
}

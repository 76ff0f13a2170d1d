// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/svctl/svctl/internal/command"
	"github.com/svctl/svctl/internal/config"
	"github.com/svctl/svctl/internal/log"
	"github.com/svctl/svctl/internal/util"
	"github.com/svctl/svctl/internal/version"
)

func main() {
	os.Exit(run(context.Background(), os.Args))
}

// run wires the startup sequence: logging, the pre-parse argument rewrites,
// then the CLI itself.
func run(ctx context.Context, args []string) int {
	log.InitLogger()
	log.Debugf("args captured: args=%v", args)

	if versionRequested(args) {
		fmt.Println(version.Version)
		return 0
	}

	args = defaultToHelp(args)

	// When --help appears anywhere, hand the args to the CLI untouched.
	if !slices.Contains(args, "--help") && !slices.Contains(args, "-h") {
		args = rewriteArgs(args)
	}

	return runApp(ctx, args)
}

// versionRequested reports whether --version or -v appears anywhere in args.
func versionRequested(args []string) bool {
	return slices.Contains(args, "--version") || slices.Contains(args, "-v")
}

// defaultToHelp turns a bare invocation into a help request.
func defaultToHelp(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// rootDirCommands are the subcommands whose first positional argument is a
// RootDir spec. Everything else takes versions, ranges, manifests, or a
// shell name.
var rootDirCommands = map[string]bool{
	"rq":   true,
	"push": true,
}

// rewriteArgs applies the rewrites that run before the CLI parser sees
// anything: @set expansion, then the RootDir default.
func rewriteArgs(args []string) []string {
	// completion args pass through untouched so a shell name is never
	// mistaken for a set marker.
	if len(args) > 1 && args[1] == "completion" {
		return args
	}

	args = expandSet(args)
	log.Debugf("args after set expansion: args=%v", args)

	if len(args) > 1 && rootDirCommands[args[1]] {
		args = defaultRootDir(args)
	}
	return args
}

// defaultRootDir inserts the CWD after the command unless the next argument
// already parses as a RootDir spec.
func defaultRootDir(args []string) []string {
	if len(args) > 2 {
		if _, _, err := util.ParseRootDir(args[2]); err == nil {
			return args
		}
	}

	cwd, _ := os.Getwd()
	return append(args[:2], append([]string{cwd}, args[2:]...)...)
}

// expandSet replaces an @set argument with the args saved under
// "<command>.<set>" in the config file. A bare "@" means "@defaults". The
// marker is removed even when the set has nothing saved.
func expandSet(args []string) []string {
	at := -1
	for i := 2; i < len(args); i++ {
		if strings.HasPrefix(args[i], "@") {
			at = i
			break
		}
	}
	if at == -1 {
		return args
	}

	set := args[at][1:]
	if set == "" {
		set = "defaults"
	}

	// Saved entries may hold several words ("--sort version") and split on
	// whitespace, the way the shell would have.
	var expanded []string
	saved, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range saved {
		expanded = append(expanded, strings.Fields(arg)...)
	}

	out := append([]string{}, args[:at]...)
	out = append(out, expanded...)
	return append(out, args[at+1:]...)
}

// runApp builds the CLI and runs it, mapping errors to exit codes.
func runApp(ctx context.Context, args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init failed: err=%v", err)
		return 1
	}

	err = app.Run(ctx, args)
	if err == nil {
		return 0
	}
	log.Debugf("app run failed: err=%v", err)

	// An unsatisfied range is a result, not a failure. It gets its own exit
	// code and no stderr noise so scripts can branch on it.
	if errors.Is(err, command.ErrUnsatisfied) {
		return 1
	}
	fmt.Fprintln(os.Stderr, err)
	return 2
}

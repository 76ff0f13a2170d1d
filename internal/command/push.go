// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/config"
	"github.com/svctl/svctl/internal/gitutil"
	"github.com/svctl/svctl/internal/meta"
)

// pushCommandAction is the action handler for the "push" subcommand. It
// stages the manifest (or everything), commits, and pushes from the RootDir,
// retrying rejected pushes after re-integrating remote changes.
func pushCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "push") {
		return nil
	}

	if !gitutil.IsRepo(ctx, m.RootDir) {
		return fmt.Errorf("%s is not inside a git work tree", m.RootDir)
	}

	var paths []string
	if mf := cmd.String("manifest"); mf != "" && mf != "-" {
		paths = append(paths, mf)
	}

	// --branch wins over the RootDir spec qualifier.
	branch := cmd.String("branch")
	if branch == "" {
		branch = m.Branch
	}

	return gitutil.CommitAndPush(ctx, gitutil.PushOptions{
		Dir:      m.RootDir,
		Paths:    paths,
		Message:  cmd.String("message"),
		Remote:   cmd.String("remote"),
		Branch:   branch,
		Attempts: cmd.Int("attempts"),
		Backoff:  time.Duration(cmd.Int("backoff")) * time.Second,
	})
}

// pushConfigInt reads an integer default for the push command from the
// config file.
func pushConfigInt(key string, fallback int) int {
	v, _ := config.GetInt("push."+key, fallback)
	return v
}

// pushCommandBuilder constructs the "push" subcommand.
func pushCommandBuilder(meta meta.Meta) *cli.Command {
	manifestFlag := withConfigSources("push", meta.Config.Source,
		&cli.StringFlag{
			Name:  "manifest",
			Usage: "manifest path to stage. Everything when empty",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SVCTL_MANIFEST"),
			),
		})

	remoteFlag := withConfigSources("push", meta.Config.Source,
		&cli.StringFlag{
			Name:  "remote",
			Usage: "git remote to push to",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SVCTL_REMOTE"),
			),
			Value: "origin",
		})

	branchFlag := withConfigSources("push", meta.Config.Source,
		&cli.StringFlag{
			Name:  "branch",
			Usage: "branch to push. The current branch when empty",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SVCTL_BRANCH"),
			),
		})

	return &cli.Command{
		Name:      "push",
		Usage:     "commit and push the manifest",
		UsageText: "svctl push [RootDir[::branch]] [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags: []cli.Flag{
			tldrFlag,
			manifestFlag,
			remoteFlag,
			branchFlag,
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "commit message",
			},
			&cli.IntFlag{
				Name:  "attempts",
				Usage: "push attempts before giving up",
				Value: pushConfigInt("attempts", 5),
			},
			&cli.IntFlag{
				Name:  "backoff",
				Usage: "seconds between push attempts, doubled each retry",
				Value: pushConfigInt("backoff", 2),
			},
		},
		Action: pushCommandAction,
	}
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package gitutil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/apex/log"
)

// gitBin is a var so tests can point it somewhere hopeless.
var gitBin = "git"

// maxCommandError caps how much captured git output is packed into an error.
const maxCommandError = 300

// PushOptions carries everything CommitAndPush needs. Attempts below one is
// treated as one. A zero Backoff retries immediately.
type PushOptions struct {
	Dir      string
	Paths    []string
	Message  string
	Remote   string
	Branch   string
	Attempts int
	Backoff  time.Duration
}

// CommitAndPush stages the given paths (or everything, if none are given),
// commits them, and pushes. A rejected push is retried up to Attempts times,
// pulling with rebase to integrate the remote's changes between attempts.
// Nothing staged is not an error.
func CommitAndPush(ctx context.Context, opts PushOptions) error {
	if _, err := exec.LookPath(gitBin); err != nil {
		return fmt.Errorf("git not found in PATH: %w", err)
	}

	if opts.Attempts < 1 {
		opts.Attempts = 1
	}

	if _, err := run(ctx, opts.Dir, addArgs(opts.Paths)...); err != nil {
		return fmt.Errorf("failed to stage: %w", err)
	}

	staged, err := run(ctx, opts.Dir, "diff", "--cached", "--name-only")
	if err != nil {
		return fmt.Errorf("failed to check the index: %w", err)
	}
	if strings.TrimSpace(staged) == "" {
		log.Info("nothing to commit")
		return nil
	}

	if _, err := run(ctx, opts.Dir, commitArgs(opts.Message)...); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	for attempt := 1; ; attempt++ {
		_, err := run(ctx, opts.Dir, pushArgs(opts.Remote, opts.Branch)...)
		if err == nil {
			if attempt > 1 {
				log.Infof("push succeeded on attempt %d", attempt)
			}
			return nil
		}

		if attempt >= opts.Attempts {
			return fmt.Errorf("failed to push after %d attempts: %w", attempt, err)
		}

		log.Debugf("push rejected, rebasing: %v", err)
		if _, err := run(ctx, opts.Dir, rebaseArgs(opts.Remote, opts.Branch)...); err != nil {
			return fmt.Errorf("failed to rebase: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delayFor(attempt, opts.Backoff)):
		}
	}
}

// IsRepo reports whether dir sits inside a git work tree.
func IsRepo(ctx context.Context, dir string) bool {
	out, err := run(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// run executes git with the given arguments, capturing combined output. On
// failure the trimmed output rides along in the error since git puts the
// interesting part of a rejection on stderr.
func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, gitBin, args...)
	cmd.Dir = dir

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	log.Debugf("git %s", strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		return combined.String(), fmt.Errorf("git %s: %s", strings.Join(args, " "), trimCommandOutput(combined.String()))
	}

	return combined.String(), nil
}

func trimCommandOutput(out string) string {
	clean := strings.TrimSpace(out)
	if clean == "" {
		return "command failed"
	}
	if len(clean) > maxCommandError {
		return clean[:maxCommandError] + "..."
	}
	return clean
}

func addArgs(paths []string) []string {
	if len(paths) == 0 {
		return []string{"add", "-A"}
	}
	return append([]string{"add", "--"}, paths...)
}

func commitArgs(message string) []string {
	if message == "" {
		message = "svctl push"
	}
	return []string{"commit", "-m", message}
}

// pushArgs never emits a branch without a remote. Git rejects that spelling.
func pushArgs(remote, branch string) []string {
	args := []string{"push"}
	if remote != "" {
		args = append(args, remote)
		if branch != "" {
			args = append(args, branch)
		}
	}
	return args
}

func rebaseArgs(remote, branch string) []string {
	args := []string{"pull", "--rebase"}
	if remote != "" {
		args = append(args, remote)
		if branch != "" {
			args = append(args, branch)
		}
	}
	return args
}

// delayFor doubles the base delay on each successive attempt.
func delayFor(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	return base << (attempt - 1)
}

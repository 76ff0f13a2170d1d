// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseRootDir parses a RootDir spec of the form dir[::branch] and returns
// the absolute directory plus the optional branch qualifier. The directory
// half must name an existing directory; the branch half is passed through
// for the push command to target.
func ParseRootDir(spec string) (string, string, error) {
	if spec == "" {
		return "", "", os.ErrInvalid
	}

	dir, branch, _ := strings.Cut(spec, "::")
	if dir == "" {
		return "", "", fmt.Errorf("rootdir spec %q names no directory", spec)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", "", err
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("%s is not a directory", abs)
	}

	return abs, branch, nil
}

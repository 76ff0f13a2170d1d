// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/svctl/svctl/internal/config"
)

// RootDirSpec holds the resolved root directory and the optional branch
// qualifier from a dir::branch spec. The branch matters only to push;
// other directory-scoped commands ignore it.
type RootDirSpec struct {
	RootDir string
	Branch  string
}

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, the resolved root directory specification, and
// the starting working directory.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	RootDirSpec
	StartingDir string
}

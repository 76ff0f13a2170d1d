// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package gitutil shells out to git to stage, commit and push manifest
// changes. Pushes that are rejected because the remote moved are retried
// with a rebase in between.
package gitutil

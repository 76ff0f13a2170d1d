// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders release datasets. It filters and sorts rows, applies
// attribute transforms, and emits tables, JSON, YAML or the raw payload.
package output

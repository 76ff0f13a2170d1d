// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package manifest loads release manifests and resolves release specs against
// them. A manifest is a JSON or YAML document with a collection of release
// entries. Specs can select releases by position (latest, latest~N), exact
// version, or version-line prefix.
package manifest

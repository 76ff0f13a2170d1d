// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package semver implements the version engine behind svctl: strict
// validation, shape-normalizing cleanup, total-order comparison, range
// satisfaction, and upgrade path planning.
//
// The grammar is deliberately narrower than full SemVer 2.0. Numeric
// components never carry leading zeros, prerelease text is opaque (compared
// byte-wise, not dot-segment by dot-segment), and range comparators always
// require an explicit operator. Build metadata is parsed and carried but
// never participates in ordering.
//
// All failures are returned as values wrapping one of the package sentinel
// errors. Nothing in this package panics on malformed input.
package semver

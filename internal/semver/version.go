// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrEmptyVersion is returned when an empty string is offered as a version.
	ErrEmptyVersion = errors.New("empty version")

	// ErrMalformedVersion is returned when a version string does not match the
	// accepted grammar.
	ErrMalformedVersion = errors.New("malformed version")

	// ErrMalformedRange is returned when a range expression cannot be parsed.
	ErrMalformedRange = errors.New("malformed range")
)

// Version is a parsed semantic version. Major, Minor, and Patch are
// non-negative. Prerelease and Build hold the raw text after "-" and "+"
// respectively, or "" when absent.
type Version struct {
	Major      int    `json:"major"`
	Minor      int    `json:"minor"`
	Patch      int    `json:"patch"`
	Prerelease string `json:"prerelease,omitempty"`
	Build      string `json:"build,omitempty"`
}

// validRegex is the strict grammar: optional leading v, three dot-separated
// non-negative integers without leading zeros, an optional non-empty
// prerelease (any characters except +), and an optional non-empty build
// (the remainder).
var validRegex = regexp.MustCompile(
	`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-([^+]+))?(?:\+(.+))?$`)

// cleanRegexes are the shapes accepted by Clean, tried in order. The full
// shape additionally admits the x/X placeholder per component; the partial
// shapes are numeric only and carry no prerelease or build.
var (
	cleanFullRegex = regexp.MustCompile(
		`^v?(0|[1-9]\d*|[xX])\.(0|[1-9]\d*|[xX])\.(0|[1-9]\d*|[xX])(?:-([^+]+))?(?:\+(.+))?$`)
	cleanMajorMinorRegex = regexp.MustCompile(`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)$`)
	cleanMajorRegex      = regexp.MustCompile(`^v?(0|[1-9]\d*)$`)
)

// Parse validates s against the strict grammar and returns its components.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	m := validRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}

	// The numeric components are bounded by the regex, so Atoi cannot fail.
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])

	return Version{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: m[4],
		Build:      m[5],
	}, nil
}

// Valid reports whether s matches the strict version grammar.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// String renders the version in canonical form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// Clean normalizes s into canonical MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]
// form. Three input shapes are accepted: the full three-component form, where
// any component may be the placeholder x or X (normalized to 0), MAJOR.MINOR
// (patch becomes 0), and a bare MAJOR (minor and patch become 0). A leading v
// is stripped. Clean is idempotent: its output always cleans to itself.
func Clean(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyVersion
	}

	if m := cleanFullRegex.FindStringSubmatch(s); m != nil {
		out := fmt.Sprintf("%s.%s.%s",
			placeholderToZero(m[1]), placeholderToZero(m[2]), placeholderToZero(m[3]))
		if m[4] != "" {
			out += "-" + m[4]
		}
		if m[5] != "" {
			out += "+" + m[5]
		}
		return out, nil
	}

	if m := cleanMajorMinorRegex.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s.%s.0", m[1], m[2]), nil
	}

	if m := cleanMajorRegex.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s.0.0", m[1]), nil
	}

	return "", fmt.Errorf("%w: %q", ErrMalformedVersion, s)
}

// placeholderToZero maps the x/X range placeholder to "0" and returns numeric
// components untouched.
func placeholderToZero(c string) string {
	if c == "x" || c == "X" {
		return "0"
	}
	return c
}

// Compare cleans both inputs, then orders them: -1 when a < b, 0 when equal,
// +1 when a > b. Major, minor, and patch compare numerically. A version with
// a prerelease sorts below the same version without one. Two prereleases
// compare as raw bytes, not segment by segment. Build metadata never
// participates.
func Compare(a, b string) (int, error) {
	ca, err := Clean(a)
	if err != nil {
		return 0, err
	}
	cb, err := Clean(b)
	if err != nil {
		return 0, err
	}

	va, err := Parse(ca)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(cb)
	if err != nil {
		return 0, err
	}

	return va.Compare(vb), nil
}

// Compare orders v against o with the same semantics as the package-level
// Compare, minus the cleanup step.
func (v Version) Compare(o Version) int {
	if c := compareInt(v.Major, o.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, o.Patch); c != 0 {
		return c
	}

	switch {
	case v.Prerelease == o.Prerelease:
		return 0
	case v.Prerelease == "":
		return 1
	case o.Prerelease == "":
		return -1
	}

	return strings.Compare(v.Prerelease, o.Prerelease)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

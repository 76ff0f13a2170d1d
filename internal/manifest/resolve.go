// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/svctl/svctl/internal/semver"
)

// ErrNoMatch is returned when a spec resolves to no release in the manifest.
var ErrNoMatch = errors.New("no release matches spec")

// Resolve takes a manifest plus zero or more specs and returns the matching
// release entries, one per spec. Releases are considered most recent first.
// A spec can be -
//
//	empty     - the most recent release.
//	latest    - the most recent release.
//	latest~N  - the release N behind the most recent.
//	version   - the release with exactly that version.
//	prefix    - the most recent release in that major or major.minor line.
func Resolve(m *Manifest, specs ...string) ([]Entry, error) {
	var result = []Entry{}

	// Short circuit if no spec was provided and return the most recent.
	if len(specs) == 0 {
		specs = []string{"latest~0"}
	}

	releases := m.Released()

	// Process each spec and resolve to a release entry.
	for _, spec := range specs {
		entry, err := resolveSpec(spec, releases)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}

	return result, nil
}

// resolveSpec takes a single spec string and returns the matching release.
func resolveSpec(spec string, releases []Entry) (Entry, error) {
	switch {
	case spec == "" || strings.EqualFold(spec, "latest"):
		return resolveLatestSpec("latest~0", releases)

	case strings.HasPrefix(strings.ToLower(spec), "latest~"):
		return resolveLatestSpec(spec, releases)

	case semver.Valid(spec):
		return resolveExactSpec(spec, releases)

	default:
		return resolvePrefixSpec(spec, releases)
	}
}

// resolveLatestSpec handles latest~N format specs.
func resolveLatestSpec(spec string, releases []Entry) (Entry, error) {
	parts := strings.Split(spec, "~")
	if len(parts) != 2 {
		return Entry{}, fmt.Errorf("invalid latest spec format: %s", spec)
	}

	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid latest index: %s", parts[1])
	}

	if index < 0 || index > len(releases)-1 {
		return Entry{}, fmt.Errorf("index %d out of range for %d releases", index, len(releases))
	}

	return releases[index], nil
}

// resolveExactSpec handles full version specs.
func resolveExactSpec(spec string, releases []Entry) (Entry, error) {
	want, _ := semver.Parse(spec)

	for _, e := range releases {
		v, _ := semver.Parse(e.Version)
		if v.Compare(want) == 0 {
			return e, nil
		}
	}

	return Entry{}, fmt.Errorf("%w: %s", ErrNoMatch, spec)
}

// resolvePrefixSpec handles major and major.minor line specs. Releases are
// most recent first, so the first hit in the line wins.
func resolvePrefixSpec(spec string, releases []Entry) (Entry, error) {
	parts := strings.Split(strings.TrimPrefix(spec, "v"), ".")
	if len(parts) > 2 {
		return Entry{}, fmt.Errorf("invalid release spec: %s", spec)
	}

	line := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Entry{}, fmt.Errorf("invalid release spec: %s", spec)
		}
		line = append(line, n)
	}

	for _, e := range releases {
		v, _ := semver.Parse(e.Version)
		if v.Major != line[0] {
			continue
		}
		if len(line) == 2 && v.Minor != line[1] {
			continue
		}
		return e, nil
	}

	return Entry{}, fmt.Errorf("%w: %s", ErrNoMatch, spec)
}

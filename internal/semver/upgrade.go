// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package semver

// UpgradeList returns the members of versions that are <= max. The input
// must already be sorted ascending; the result for an unsorted input is
// unspecified. When max is at or beyond the final element the input slice is
// returned as-is, interior elements unexamined. Otherwise the qualifying
// prefix is returned, stopping at the first element beyond max. A malformed
// max, or a malformed element encountered during the walk, is an error.
func UpgradeList(versions []string, max string) ([]string, error) {
	cleanedMax, err := Clean(max)
	if err != nil {
		return nil, err
	}
	vmax, err := Parse(cleanedMax)
	if err != nil {
		return nil, err
	}

	if len(versions) == 0 {
		return versions, nil
	}

	// Fast path: max covers the whole list.
	last, err := parseCleaned(versions[len(versions)-1])
	if err != nil {
		return nil, err
	}
	if vmax.Compare(last) >= 0 {
		return versions, nil
	}

	result := make([]string, 0, len(versions))
	for _, s := range versions {
		v, err := parseCleaned(s)
		if err != nil {
			return nil, err
		}
		if v.Compare(vmax) > 0 {
			break
		}
		result = append(result, s)
	}

	return result, nil
}

// parseCleaned runs a version string through Clean then Parse.
func parseCleaned(s string) (Version, error) {
	cleaned, err := Clean(s)
	if err != nil {
		return Version{}, err
	}
	return Parse(cleaned)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"

	"github.com/svctl/svctl/internal/semver"
)

// SortDataset sorts rows in place per the sort spec: comma separated field
// names, a "-" prefix for descending, a "!" prefix for case sensitive string
// comparison. Later fields break ties left by earlier ones.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	fields := strings.Split(spec, ",")

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, field := range fields {
			ascending := !strings.HasPrefix(field, "-")
			field = strings.TrimPrefix(field, "-")

			caseSensitive := strings.HasPrefix(field, "!")
			field = strings.TrimPrefix(field, "!")

			cmp := compareValues(resultSet[one][field], resultSet[two][field], caseSensitive)
			if cmp == 0 {
				continue
			}

			if ascending {
				return cmp < 0
			}
			return cmp > 0
		}

		return false
	})
}

// compareValues orders two column values. Numbers compare numerically and
// version strings by precedence, everything else lexicographically.
func compareValues(one, two interface{}, caseSensitive bool) int {
	oneNum, oneOk := one.(float64)
	twoNum, twoOk := two.(float64)
	if oneOk && twoOk {
		switch {
		case oneNum < twoNum:
			return -1
		case oneNum > twoNum:
			return 1
		}
		return 0
	}

	oneStr := InterfaceToString(one)
	twoStr := InterfaceToString(two)

	// Lexicographic order gets version columns wrong once a component hits
	// two digits.
	if cmp, err := semver.Compare(oneStr, twoStr); err == nil {
		return cmp
	}

	if !caseSensitive {
		oneStr = strings.ToLower(oneStr)
		twoStr = strings.ToLower(twoStr)
	}

	return strings.Compare(oneStr, twoStr)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex matches one path segment: a key plus an optional [n] or []
// suffix. Keys are limited to the characters release documents actually use.
var segmentRegex = regexp.MustCompile(`^([A-Za-z0-9_-]+)(\[(\d+)?\])?$`)

// Driller resolves a dot path against a release document and returns the
// value at that location. A segment may carry an index ("releases[2]") to
// pick one element, or bare brackets ("platforms[]") to keep the array whole.
// Without brackets a one-element array unwraps to its element.
func Driller(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)

	for _, segment := range strings.Split(path, ".") {
		matches := segmentRegex.FindStringSubmatch(segment)
		if matches == nil {
			return gjson.Result{}
		}

		val := current.Get(matches[1])
		if val.IsArray() {
			val = resolveArray(val, matches[2], matches[3])
		}

		current = val
	}

	return current
}

// resolveArray applies a segment's bracket suffix to an array value.
func resolveArray(val gjson.Result, brackets string, index string) gjson.Result {
	arr := val.Array()

	if index != "" {
		i, err := strconv.Atoi(index)
		if err != nil || i >= len(arr) {
			return gjson.Result{}
		}
		return arr[i]
	}

	if brackets == "" && len(arr) == 1 {
		return arr[0]
	}

	return val
}

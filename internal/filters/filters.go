// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/svctl/svctl/internal/attrs"
	"github.com/svctl/svctl/internal/driller"
	"github.com/svctl/svctl/internal/semver"
)

// filterRegex splits a filter expression into its key, operator, and target
// components. The leading underscore marks a provider-side filter. Operators
// are one of = ^ ~ < > @ / or ?, optionally prefixed with '!'. Examples:
// "channel" (key only), "channel=stable" (key + operator + target),
// "channel=" (key + operator, no target), "_channel=stable" (provider-side
// key + operator + target).
var filterRegex = regexp.MustCompile(`^(_)?([^!?=^~<>@/]*)(!?[=^~<>@/?])?(.*)$`)

// Filter is a single parsed --filter expression. Negate holds the '!' prefix
// separately so the operand checks stay negation-free.
type Filter struct {
	Key        string `yaml:"key"`
	Negate     bool   `yaml:"negate"`
	Operand    string `yaml:"operand"`
	ServerSide bool   `yaml:"serverSide"`
	Value      string `yaml:"value"`
}

// BuildFilters parses a --filter specification into its entries. Malformed
// entries log and drop out rather than failing the whole spec.
func BuildFilters(spec string) []Filter {
	if spec == "" {
		return nil
	}

	// Entries split on "," unless SVCTL_FILTER_DELIM overrides it for values
	// that embed commas.
	delim := ","
	if d, ok := os.LookupEnv("SVCTL_FILTER_DELIM"); ok {
		delim = d
	}

	var parsed []Filter
	for raw := range strings.SplitSeq(spec, delim) {
		if f, ok := parseFilter(raw); ok {
			parsed = append(parsed, f)
		}
	}

	return parsed
}

// parseFilter parses one entry of a filter spec. ok is false when the entry
// is blank or carries no usable key.
func parseFilter(raw string) (Filter, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Filter{}, false
	}

	parts := filterRegex.FindStringSubmatch(raw)
	if parts == nil {
		log.Errorf("invalid filter: %s", raw)
		return Filter{}, false
	}

	// parts[1] is the provider-side marker, parts[2] the key, parts[3] the
	// operator with optional negation, parts[4] the target.
	key := strings.TrimSpace(parts[2])
	if key == "" {
		log.Errorf("invalid filter, empty key: %s", raw)
		return Filter{}, false
	}

	operand, negated := strings.CutPrefix(parts[3], "!")

	return Filter{
		Key:        key,
		ServerSide: parts[1] == "_",
		Negate:     negated,
		Operand:    operand,
		Value:      parts[4],
	}, true
}

// FilterDataset returns the candidate rows that pass the filter spec,
// projected down to the attribute list. This is the result-side filtering;
// any provider-side filtering already happened at the source.
func FilterDataset(candidates gjson.Result, attrs attrs.AttrList, spec string) []map[string]interface{} {
	// Parse the spec once so invalid entries are discarded up front instead
	// of once per candidate row.
	parsed := BuildFilters(spec)

	all := candidates.Array()
	rows := make([]map[string]interface{}, 0, len(all))

	for _, candidate := range all {
		if !applyFilters(candidate, attrs, parsed) {
			continue
		}

		// Transforms run later, in the output phase. The row keeps its raw
		// values here.
		row := make(map[string]interface{}, len(attrs))
		for _, attr := range attrs {
			row[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		rows = append(rows, row)
	}

	return rows
}

// applyFilters reports whether the candidate row passes every filter.
// Provider-side keys (prefixed with _) were applied at the source and are
// skipped here.
func applyFilters(candidate gjson.Result, attrList attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		if filter.ServerSide {
			continue
		}

		// "stable" is a virtual key. It checks the row's version field
		// rather than a projected attribute.
		if filter.Key == "stable" {
			if isStable(candidate, filter) == stableFail {
				return false
			}
			continue
		}

		// Map the filter key back to the document key it projects from. An
		// unknown key warns and is skipped rather than rejecting the row.
		i := slices.IndexFunc(attrList, func(a attrs.Attr) bool { return a.OutputKey == filter.Key })
		if i < 0 {
			log.Errorf("filter key not found: %s", filter.Key)
			fmt.Fprintf(os.Stderr, "warning: filter key not found: %s\n", filter.Key)
			continue
		}

		// A row missing the filtered field fails outright.
		value := driller.Driller(candidate.Raw, attrList[i].Key).Value()
		if value == nil {
			return false
		}

		if !matchValue(value, filter) {
			return false
		}
	}

	return true
}

// matchValue dispatches one filter check on the value's concrete type. The
// value comes out of gjson, so a number is always a float64 and structured
// values are []interface{} or map[string]interface{}.
func matchValue(value interface{}, filter Filter) bool {
	switch v := value.(type) {
	case string:
		return checkStringOperand(v, filter)
	case bool:
		return checkStringOperand(strconv.FormatBool(v), filter)
	case float64:
		return checkNumericOperand(v, filter)
	default:
		if filter.Operand == "@" {
			return checkContainsOperand(value, filter)
		}
		return true
	}
}

// checkStringOperand evaluates one string comparison. Ordering operands
// compare with version precedence when both sides parse as versions.
func checkStringOperand(value string, filter Filter) bool {
	var hit bool

	switch filter.Operand {
	case "=":
		hit = value == filter.Value
	case "~":
		hit = strings.EqualFold(value, filter.Value)
	case "^":
		hit = strings.HasPrefix(value, filter.Value)
	case ">", "<":
		hit = orderedMatch(value, filter.Value, filter.Operand)
	case "@":
		hit = strings.Contains(value, filter.Value)
	case "?":
		hit = semver.Satisfies(value, filter.Value)
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Errorf("invalid regex: %s", filter.Value)
			return false
		}
		hit = matched
	default:
		log.Errorf("unsupported filtering operand: %s", filter.Operand)
		return false
	}

	return hit != filter.Negate
}

// orderedMatch compares value against target with version precedence when
// both sides parse as versions, lexicographically when they do not.
func orderedMatch(value string, target string, operand string) bool {
	if cmp, err := semver.Compare(value, target); err == nil {
		if operand == ">" {
			return cmp > 0
		}
		return cmp < 0
	}

	if operand == ">" {
		return value > target
	}
	return value < target
}

// checkNumericOperand compares a numeric value against the filter target.
// Only =, > and < carry numeric meaning.
func checkNumericOperand(value float64, filter Filter) bool {
	target, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		log.Errorf("invalid numeric value: %s", filter.Value)
		return false
	}

	var hit bool
	switch filter.Operand {
	case "=":
		hit = value == target
	case ">":
		hit = value > target
	case "<":
		hit = value < target
	default:
		log.Errorf("unsupported numeric operand: %s", filter.Operand)
		return false
	}

	return hit != filter.Negate
}

// checkContainsOperand evaluates a membership check (operand '@') against
// slice or map values: element of the slice, or key of the map.
func checkContainsOperand(value interface{}, filter Filter) bool {
	switch val := value.(type) {
	case []interface{}:
		return slices.Contains(val, any(filter.Value)) != filter.Negate
	case map[string]interface{}:
		_, found := val[filter.Value]
		return found != filter.Negate
	default:
		log.Errorf("unsupported type for contains filtering: %T", value)
		return false
	}
}

// stableCheckType is the outcome of the stable release check.
type stableCheckType int

const (
	stablePass stableCheckType = iota
	stableFail
)

// isStable checks the candidate against the stable virtual filter. A row is
// stable when its version parses, carries no prerelease identifiers and has a
// major version of at least 1. filter.Value selects the mode: "" or "true"
// keeps stable rows, "false" keeps the rest.
func isStable(candidate gjson.Result, filter Filter) stableCheckType {
	// Rows without a string version field are left alone.
	version, ok := driller.Driller(candidate.Raw, "version").Value().(string)
	if !ok {
		return stablePass
	}

	v, err := semver.Parse(version)
	stable := err == nil && v.Prerelease == "" && v.Major > 0

	wantStable := filter.Value == "" || filter.Value == "true"
	if stable != wantStable {
		return stableFail
	}

	return stablePass
}

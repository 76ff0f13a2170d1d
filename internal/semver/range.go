// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package semver

import (
	"fmt"
	"strings"
)

// Op is a range comparator operator.
type Op int

const (
	OpInvalid Op = iota
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpEqual
)

// String renders the operator in its range-expression spelling.
func (op Op) String() string {
	switch op {
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpEqual:
		return "="
	default:
		return "?"
	}
}

// opPrefixes maps operator spellings to Op values. Two-character spellings
// come first so that ">=" is never read as ">" followed by "=1.2.3".
var opPrefixes = []struct {
	text string
	op   Op
}{
	{">=", OpGreaterEq},
	{"<=", OpLessEq},
	{">", OpGreater},
	{"<", OpLess},
	{"=", OpEqual},
}

// Comparator is a single operator+version term inside a range expression.
// Version is held in cleaned canonical form.
type Comparator struct {
	Op      Op
	Version Version
}

// Eval reports whether v satisfies the comparator.
func (c Comparator) Eval(v Version) bool {
	cmp := v.Compare(c.Version)
	switch c.Op {
	case OpLess:
		return cmp < 0
	case OpLessEq:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEq:
		return cmp >= 0
	case OpEqual:
		return cmp == 0
	default:
		return false
	}
}

// ComparatorSet is a conjunction: every comparator must hold.
type ComparatorSet []Comparator

// Eval reports whether v satisfies every comparator in the set.
func (cs ComparatorSet) Eval(v Version) bool {
	for _, c := range cs {
		if !c.Eval(v) {
			return false
		}
	}
	return true
}

// Range is a disjunction of comparator sets: any one set matching suffices.
type Range []ComparatorSet

// Contains reports whether v satisfies at least one comparator set.
func (r Range) Contains(v Version) bool {
	for _, cs := range r {
		if cs.Eval(v) {
			return true
		}
	}
	return false
}

// ParseRange parses a range expression into its OR groups. Groups are
// separated by || or a single | (the two spellings are equivalent); the
// comparators inside a group are separated by whitespace. Every comparator
// must carry an explicit operator: bare versions are rejected. An error from
// any group fails the whole parse; use Satisfies for the lenient group-level
// treatment.
func ParseRange(expr string) (Range, error) {
	groups, err := splitGroups(expr)
	if err != nil {
		return nil, err
	}

	r := make(Range, 0, len(groups))
	for _, g := range groups {
		cs, err := parseComparatorSet(g)
		if err != nil {
			return nil, err
		}
		r = append(r, cs)
	}

	return r, nil
}

// Satisfies reports whether version matches the range expression. The
// expression is an OR of whitespace-separated comparator groups. A group
// that fails to parse, including one holding an unrecognized operator,
// counts as unsatisfied without poisoning its siblings. A version that fails
// to parse never satisfies anything.
func Satisfies(version, rangeExpr string) bool {
	cleaned, err := Clean(version)
	if err != nil {
		return false
	}
	v, err := Parse(cleaned)
	if err != nil {
		return false
	}

	groups, err := splitGroups(rangeExpr)
	if err != nil {
		return false
	}

	for _, g := range groups {
		cs, err := parseComparatorSet(g)
		if err != nil {
			continue
		}
		if cs.Eval(v) {
			return true
		}
	}

	return false
}

// splitGroups normalizes the OR separators and splits the expression into
// group strings. Empty groups (from leading, trailing, or doubled
// separators beyond the || spelling) are malformed.
func splitGroups(expr string) ([]string, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrMalformedRange)
	}

	normalized := strings.ReplaceAll(expr, "||", "|")
	parts := strings.Split(normalized, "|")

	groups := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("%w: empty group in %q", ErrMalformedRange, expr)
		}
		groups = append(groups, p)
	}

	return groups, nil
}

// parseComparatorSet parses one whitespace-separated AND group.
func parseComparatorSet(group string) (ComparatorSet, error) {
	terms := strings.Fields(group)

	cs := make(ComparatorSet, 0, len(terms))
	for _, term := range terms {
		c, err := parseComparator(term)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}

	return cs, nil
}

// parseComparator parses a single operator+version term.
func parseComparator(term string) (Comparator, error) {
	for _, p := range opPrefixes {
		if !strings.HasPrefix(term, p.text) {
			continue
		}

		cleaned, err := Clean(term[len(p.text):])
		if err != nil {
			return Comparator{}, fmt.Errorf("%w: %q: %w", ErrMalformedRange, term, err)
		}
		v, err := Parse(cleaned)
		if err != nil {
			return Comparator{}, fmt.Errorf("%w: %q: %w", ErrMalformedRange, term, err)
		}

		return Comparator{Op: p.op, Version: v}, nil
	}

	return Comparator{}, fmt.Errorf("%w: missing or unrecognized operator in %q", ErrMalformedRange, term)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/svctl/svctl/internal/log"
)

// Attr is one output column: which key to pull from a release entry, what to
// call it, and how to transform its value on the way out.
type Attr struct {
	// Key addresses the value within the entry JSON. Bare keys nest under
	// the entry's meta map; keys written with a leading dot address the
	// entry root and are stored stripped.
	Key string `yaml:"key" json:"Key"`
	// Include is false for attrs that exist only for filtering and
	// sorting, and for the global transform carrier.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey names the column in rendered output.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec holds the transform letters and lengths for this attr.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attr's transform spec to a value. Only strings
// transform; maps and scalars pass through untouched for the renderer.
func (a *Attr) Transform(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		log.Tracef("untransformable value: value=%v", value)
		return value
	}

	s = a.transformTime(s)
	s = a.transformCase(s)
	return a.truncate(s)
}

// transformTime handles t (local time) and T (time ago). Release timestamps
// come in RFC3339 or, commonly, day-granular YYYY-MM-DD form.
func (a *Attr) transformTime(s string) string {
	if !strings.ContainsAny(a.TransformSpec, "tT") {
		return s
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
	}
	if err != nil {
		return s
	}

	local := t.In(time.Local)
	if strings.Contains(a.TransformSpec, "T") {
		return humanize.Time(local)
	}
	return local.Format("2006-01-02T15:04:05MST")
}

// transformCase handles l/L and u/U. The letter appearing last wins, so an
// attr's own case transform overrides a prepended global one.
func (a *Attr) transformCase(s string) string {
	lastLower := strings.LastIndexAny(a.TransformSpec, "lL")
	lastUpper := strings.LastIndexAny(a.TransformSpec, "uU")

	switch {
	case lastLower > lastUpper:
		return strings.ToLower(s)
	case lastUpper > lastLower:
		return strings.ToUpper(s)
	}
	return s
}

var lengthRegex = regexp.MustCompile(`-?\d+`)

// truncate handles numeric lengths in the spec. The last number wins, so an
// attr's own length overrides a prepended global one. A negative length
// keeps both ends of the value with ".." between them.
func (a *Attr) truncate(s string) string {
	matches := lengthRegex.FindAllString(a.TransformSpec, -1)
	if len(matches) == 0 {
		return s
	}

	n, _ := strconv.Atoi(matches[len(matches)-1])
	width := n
	if width < 0 {
		width = -width
	}
	if len(s) <= width {
		return s
	}

	if n < 0 {
		keep := width/2 - 1
		return s[:keep] + ".." + s[len(s)-keep:]
	}
	return s[:n]
}

// AttrList is the ordered set of attrs shaping a command's output.
type AttrList []Attr

// Set parses a comma-separated --attrs value and folds each
// key[:outputKey[:transformSpec]] spec into the list. A spec naming an attr
// already present, by key or by output key, updates it in place, which is
// how user specs reshape a command's defaults.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for spec := range strings.SplitSeq(value, ",") {
		attr := parseSpec(spec)
		if a.update(attr) {
			continue
		}

		// Resolve the key's home only for fresh attrs. Respecs of an
		// existing attr keep its resolved key.
		if rooted, ok := strings.CutPrefix(attr.Key, "."); ok {
			attr.Key = rooted
		} else if attr.Key != "*" {
			attr.Key = "meta." + attr.Key
		}

		*a = append(*a, attr)
	}
	log.Debugf("attrs set: list=%s", a.String())

	return nil
}

// parseSpec splits a single spec into its attr. A ! prefix excludes the attr
// from rendering; the "*" key carries the global transform spec.
func parseSpec(spec string) Attr {
	attr := Attr{Include: true}
	fields := strings.SplitN(spec, ":", 3)

	attr.Key = strings.TrimSpace(fields[0])
	if key, ok := strings.CutPrefix(attr.Key, "!"); ok {
		attr.Include = false
		attr.Key = key
	}
	if attr.Key == "*" {
		attr.Include = false
	}

	switch {
	case len(fields) == 1:
		attr.OutputKey = attr.Key[strings.LastIndex(attr.Key, ".")+1:]
	case strings.TrimSpace(fields[1]) != "":
		attr.OutputKey = strings.TrimSpace(fields[1])
	default:
		attr.OutputKey = attr.Key
	}

	if len(fields) > 2 {
		attr.TransformSpec = strings.TrimSpace(fields[2])
	}

	return attr
}

// update folds the spec into an existing attr matched by key or output key.
// It reports whether a match was found.
func (a AttrList) update(src Attr) bool {
	for i := range a {
		if a[i].Key != src.Key && a[i].OutputKey != src.Key {
			continue
		}
		a[i].Include = src.Include
		a[i].OutputKey = src.OutputKey
		a[i].TransformSpec = src.TransformSpec
		return true
	}
	return false
}

// SetGlobalTransformSpec prepends the "*" attr's transform spec, when one
// exists, onto every attr in the list.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	if i := slices.IndexFunc(*a, func(attr Attr) bool { return attr.Key == "*" }); i >= 0 {
		spec = (*a)[i].TransformSpec
	}
	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	log.Debugf("global transform prepended: spec=%s", spec)

	return nil
}

// String renders the list in --attrs flag form.
func (a *AttrList) String() string {
	specs := make([]string, 0, len(*a))
	for _, attr := range *a {
		specs = append(specs, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(specs, ",")
}

// Type satisfies the flag.Value interface.
func (a *AttrList) Type() string { return "list" }

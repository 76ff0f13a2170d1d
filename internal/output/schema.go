// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/apex/log"
)

// schemaTag is one addressable attribute discovered from a struct's json
// tags, as listed by --schema.
type schemaTag struct {
	Kind   string
	Name   string
	Option string
}

// NewTag builds a schemaTag from a raw json struct tag value. holder, when
// set, prefixes the name so nested fields come out as dotted paths.
func NewTag(holder string, raw string) schemaTag {
	tag := schemaTag{}

	name, option, _ := strings.Cut(raw, ",")

	// A json tag of "-" means the field is never emitted, so it is not
	// addressable by --attrs either.
	if name == "" || name == "-" {
		return tag
	}

	tag.Kind = "attr"
	tag.Name = name
	if holder != "" {
		tag.Name = holder + "." + tag.Name
	}
	tag.Option = option

	return tag
}

// maxSchemaDepth bounds the schema walk. An entry's nested fields sit one
// level down, which is as deep as --attrs paths reach.
const maxSchemaDepth = 1

// DumpSchema lists the attribute names discovered on typ, sorted, with a
// short preamble. A nil writer goes to os.Stdout.
func DumpSchema(prefix string, typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w,
		`Release level attributes that are directly available to the --attrs flag.
Keys under meta and the computed version component columns are also
addressable. For the complete document, use --output=raw.`)
	fmt.Fprintln(w)

	tags := dumpSchemaWalker(prefix, typ, 0)
	if len(tags) == 0 {
		log.Debugf("no addressable attributes on %s", typ.Name())
		return
	}

	slices.SortFunc(tags, func(a, b schemaTag) int {
		return strings.Compare(a.Name, b.Name)
	})

	for _, tag := range tags {
		fmt.Fprintln(w, tag.Name)
	}
}

// dumpSchemaWalker recursively walks a struct type discovering json tags.
func dumpSchemaWalker(holder string, typ reflect.Type, depth int) []schemaTag {
	var tags []schemaTag

	for i := range typ.NumField() {
		field := typ.Field(i)

		tagValue, ok := field.Tag.Lookup("json")
		if !ok {
			continue
		}

		tag := NewTag(holder, tagValue)
		if tag.Kind != "attr" {
			continue
		}

		tags = append(tags, tag)

		if depth >= maxSchemaDepth {
			continue
		}

		// Descend into struct fields, through a pointer if needed, so their
		// dotted names land in the listing too.
		fieldType := field.Type
		if fieldType.Kind() == reflect.Ptr {
			fieldType = fieldType.Elem()
		}
		if fieldType.Kind() == reflect.Struct {
			tags = append(tags, dumpSchemaWalker(tag.Name, fieldType, depth+1)...)
		}
	}

	return tags
}

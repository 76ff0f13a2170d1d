// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/svctl/svctl/internal/attrs"
	"github.com/svctl/svctl/internal/config"
	"github.com/svctl/svctl/internal/filters"
	"github.com/svctl/svctl/internal/semver"
)

// SliceDiceSpit runs a result document through the output pipeline: filter
// the rows, apply attribute transforms, sort, then render in the format named
// by --output. The optional postProcess hook runs on the finished rows just
// before tabular rendering, which is where commands plant computed columns.
func SliceDiceSpit(raw bytes.Buffer,
	attrs attrs.AttrList,
	cmd *cli.Command,
	parent string,
	w io.Writer,
	postProcess func([]map[string]interface{}) error) {

	if w == nil {
		w = os.Stdout
	}

	// raw bypasses the pipeline. The caller's document goes out untouched.
	format := cmd.String("output")
	if format == "raw" {
		_, _ = w.Write(raw.Bytes())
		return
	}

	rows := assembleRows(raw, attrs, cmd, parent)

	switch format {
	case "json":
		// Keys inside each object come out alphabetized. Holding attribute
		// order would take an ordered map.
		spitMarshaled(w, rows, json.Marshal, format)
	case "yaml":
		spitMarshaled(w, rows, yaml.Marshal, format)
	default:
		if postProcess != nil {
			if err := postProcess(rows); err != nil {
				log.Errorf("post-processing rows: %v", err)
			}
		}
		TableWriter(rows, attrs, cmd, w)
	}
}

// assembleRows turns the raw payload into filtered, transformed, sorted rows.
// parent, when set, names the collection inside the document; the
// document-level fields around it have no tabular use. A release collection
// additionally flattens so each row picks up the computed version component
// columns, letting one filter and sort path serve every payload shape.
func assembleRows(raw bytes.Buffer, attrs attrs.AttrList, cmd *cli.Command, parent string) []map[string]interface{} {
	dataset := gjson.Parse(raw.String())
	if parent != "" {
		dataset = dataset.Get(parent)
	}
	if dataset.IsArray() && dataset.Get("0.version").Exists() {
		dataset = gjson.ParseBytes(flattenManifest(dataset))
	}

	// Filtering first keeps the transform and sort phases off rows that are
	// about to drop anyway.
	rows := filters.FilterDataset(dataset, attrs, cmd.String("filter"))

	// THINK --local stamps a time transform onto every attribute even though
	// most are not timestamps. Sniffing the first row for timestamp-shaped
	// values would be tighter.
	if cmd.Bool("local") {
		for a := range attrs {
			attrs[a].TransformSpec += "t"
		}
	}
	applyTransforms(rows, attrs)

	SortDataset(rows, cmd.String("sort"))

	return rows
}

// applyTransforms runs each attribute's transform chain over its column.
func applyTransforms(rows []map[string]interface{}, attrs attrs.AttrList) {
	for _, row := range rows {
		for _, attr := range attrs {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}
}

// spitMarshaled writes the rows through the given marshaler.
func spitMarshaled(w io.Writer,
	rows []map[string]interface{},
	marshal func(interface{}) ([]byte, error),
	format string) {

	out, err := marshal(rows)
	if err != nil {
		log.Errorf("marshaling rows as %s: %v", format, err)
		return
	}
	_, _ = w.Write(out)
}

// InterfaceToString converts a cell value to its display string. An optional
// replacement may be given for empty cells; only nil and "" count as empty,
// since zero and false are real values in version component columns.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	empty := ""
	if len(emptyValue) > 0 {
		empty = emptyValue[0]
	}

	switch v := value.(type) {
	case nil:
		return empty
	case string:
		if v == "" {
			return empty
		}
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		// -1 precision renders whole numbers without a decimal point.
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		// Composite values fall back to their JSON rendering.
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// TableWriter renders rows as a borderless table honoring the color, titles
// and padding options. A nil writer goes to os.Stdout. Header and footer
// strings planted in cmd.Metadata bracket the table.
func TableWriter(
	resultSet []map[string]interface{},
	attrs attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}
	if len(resultSet) == 0 {
		return
	}

	headerStyle, evenStyle, oddStyle := rowStyles(cmd.Bool("color"))

	if banner, ok := cmd.Metadata["header"].(string); ok {
		fmt.Fprintln(w, headerStyle.Render(banner))
	}

	pad := cmd.Int("padding")
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := evenStyle
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 != 0:
				style = oddStyle
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Headers().
		Rows(tableRows(resultSet, attrs)...)

	if cmd.Bool("titles") {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(visibleKeys(attrs)...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if trailer, ok := cmd.Metadata["footer"].(string); ok {
		fmt.Fprintln(w, headerStyle.Render(trailer))
	}
}

// rowStyles builds the header style and the alternating row styles, picking
// up the configured palette when color is on.
func rowStyles(colored bool) (header, even, odd lipgloss.Style) {
	header = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
	even = lipgloss.NewStyle().Align(lipgloss.Left)
	odd = even

	if colored {
		headerColor, evenColor, oddColor := getColors("colors")
		header = header.Foreground(headerColor)
		even = even.Foreground(evenColor)
		odd = odd.Foreground(oddColor)
	}

	return
}

// tableRows projects the result set to display rows in attribute order,
// skipping excluded attributes. Absent values render as "-".
func tableRows(resultSet []map[string]interface{}, attrs attrs.AttrList) [][]string {
	rows := make([][]string, 0, len(resultSet))

	for _, result := range resultSet {
		row := make([]string, 0, len(attrs))
		for _, attr := range attrs {
			if !attr.Include {
				continue
			}
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	return rows
}

// visibleKeys returns the output keys of the included attributes, in order.
func visibleKeys(attrs attrs.AttrList) []string {
	keys := make([]string, 0, len(attrs))

	for _, attr := range attrs {
		if attr.Include {
			keys = append(keys, attr.OutputKey)
		}
	}

	return keys
}

// flattenManifest projects each release entry to a flat row and adds the
// computed version component columns, so filters and sorts can address the
// components without reparsing the version.
func flattenManifest(releases gjson.Result) []byte {
	var rows []map[string]interface{}

	for _, release := range releases.Array() {
		row := make(map[string]interface{})
		for key, value := range release.Map() {
			row[key] = value.Value()
		}

		// An entry whose version does not parse keeps its original fields and
		// simply gets no component columns.
		if v, err := semver.Parse(release.Get("version").String()); err == nil {
			row["semver"] = v.String()
			row["major"] = v.Major
			row["minor"] = v.Minor
			row["patch"] = v.Patch
			row["prerelease"] = v.Prerelease
			row["build"] = v.Build
			row["stable"] = v.Prerelease == "" && v.Major > 0
		}

		rows = append(rows, row)
	}

	flat, err := json.Marshal(rows)
	if err != nil {
		log.Errorf("flattening releases: %v", err)
		return nil
	}

	return flat
}

// getColors returns the configured color values for table rendering, falling
// back to a palette chosen by terminal background so output stays readable on
// light and dark themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	header = resolveColor(key+".title", isDark, "#a27500", "#ffc400")
	even = resolveColor(key+".even", isDark, "#333333", "#ffffff")
	odd = resolveColor(key+".odd", isDark, "#006c8a", "#29d3ff")

	return
}

// resolveColor prefers the configured value for key, leaving theme fit up to
// the user. Without one it picks the light or dark default.
func resolveColor(key string, isDark bool, light string, dark string) color.Color {
	if cfg, err := config.GetString(key); err == nil {
		return lipgloss.Color(cfg)
	}

	if isDark {
		return lipgloss.Color(dark)
	}
	return lipgloss.Color(light)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/attrs"
	"github.com/svctl/svctl/internal/config"
)

// testCmd builds a command carrying the given flags and an empty Metadata
// map, which is all the render path reads.
func testCmd(flags ...cli.Flag) *cli.Command {
	cmd := &cli.Command{Flags: flags}
	cmd.Metadata = make(map[string]interface{})
	return cmd
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"version": "1.10.0", "channel": "Stable", "patch": 0.0},
		{"version": "1.9.0", "channel": "beta", "patch": 9.0},
		{"version": "0.9.0", "channel": "stable", "patch": 1.0},
	}

	tests := []struct {
		name string
		spec string
		want []string
	}{
		{name: "ascending by version", spec: "version", want: []string{"0.9.0", "1.9.0", "1.10.0"}},
		{name: "descending by version", spec: "-version", want: []string{"1.10.0", "1.9.0", "0.9.0"}},
		{name: "ascending by channel", spec: "channel", want: []string{"1.9.0", "1.10.0", "0.9.0"}},
		{name: "case sensitive channel", spec: "!channel", want: []string{"1.10.0", "1.9.0", "0.9.0"}},
		{name: "ascending by patch", spec: "patch", want: []string{"1.10.0", "0.9.0", "1.9.0"}},
		{name: "descending by patch", spec: "-patch", want: []string{"1.9.0", "0.9.0", "1.10.0"}},
		{name: "multiple fields", spec: "channel,version", want: []string{"1.9.0", "0.9.0", "1.10.0"}},
		{name: "empty spec leaves order alone", spec: "", want: []string{"1.10.0", "1.9.0", "0.9.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := slices.Clone(testData)
			SortDataset(data, tt.spec)
			for i, version := range tt.want {
				assert.Equal(t, version, data[i]["version"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		empty []string
		want  string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "int", value: 42, want: "42"},
		{name: "whole float drops the decimal point", value: 42.0, want: "42"},
		{name: "fractional float keeps its digits", value: 42.7, want: "42.7"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false is a real value", value: false, want: "false"},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, empty: []string{"-"}, want: "-"},
		{name: "empty string custom", value: "", empty: []string{"-"}, want: "-"},
		{name: "slice", value: []string{"a", "b"}, want: `["a","b"]`},
		{name: "map", value: map[string]int{"x": 1}, want: `{"x":1}`},
		{name: "zero int is a real value", value: 0, want: "0"},
		{name: "zero float is a real value", value: 0.0, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterfaceToString(tt.value, tt.empty...))
		})
	}
}

func TestResolveColor(t *testing.T) {
	t.Cleanup(func() { config.Config = config.Type{} })

	t.Run("theme default without config", func(t *testing.T) {
		t.Setenv("SVCTL_CFG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
		config.Config = config.Type{}

		assert.Equal(t, lipgloss.Color("#29d3ff"), resolveColor("colors.odd", true, "#006c8a", "#29d3ff"))
		assert.Equal(t, lipgloss.Color("#006c8a"), resolveColor("colors.odd", false, "#006c8a", "#29d3ff"))
	})

	t.Run("configured value wins over theme", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "svctl.yaml")
		require.NoError(t, os.WriteFile(file, []byte("colors:\n  title: \"#123456\"\n"), 0o644))
		t.Setenv("SVCTL_CFG_FILE", file)
		config.Config = config.Type{}

		got := resolveColor("colors.title", true, "#a27500", "#ffc400")
		assert.Equal(t, lipgloss.Color("#123456"), got)
	})
}

func TestTableWriter(t *testing.T) {
	tests := []struct {
		name      string
		resultSet []map[string]interface{}
		attrs     attrs.AttrList
		wantEmpty bool
		wantParts []string
		notParts  []string
	}{
		{
			name:      "empty result set returns early",
			resultSet: []map[string]interface{}{},
			attrs:     attrs.AttrList{},
			wantEmpty: true,
		},
		{
			name: "single row renders",
			resultSet: []map[string]interface{}{
				{"version": "1.2.5", "channel": "stable"},
			},
			attrs: attrs.AttrList{
				attrs.Attr{OutputKey: "version", Include: true},
				attrs.Attr{OutputKey: "channel", Include: true},
			},
			wantParts: []string{"1.2.5", "stable", "version", "channel"},
		},
		{
			name: "respects include flag filtering",
			resultSet: []map[string]interface{}{
				{"version": "1.2.5", "hidden": "secret"},
			},
			attrs: attrs.AttrList{
				attrs.Attr{OutputKey: "version", Include: true},
				attrs.Attr{OutputKey: "hidden", Include: false},
			},
			wantParts: []string{"1.2.5"},
			notParts:  []string{"secret"},
		},
		{
			name: "missing value renders placeholder",
			resultSet: []map[string]interface{}{
				{"version": "1.2.5"},
			},
			attrs: attrs.AttrList{
				attrs.Attr{OutputKey: "version", Include: true},
				attrs.Attr{OutputKey: "notes", Include: true},
			},
			wantParts: []string{"1.2.5", "-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			cmd := testCmd(
				&cli.BoolFlag{Name: "color"},
				&cli.BoolFlag{Name: "titles", Value: true},
				&cli.IntFlag{Name: "padding"},
			)

			TableWriter(tt.resultSet, tt.attrs, cmd, buf)

			if tt.wantEmpty {
				assert.Empty(t, buf.String())
				return
			}
			for _, part := range tt.wantParts {
				assert.Contains(t, buf.String(), part)
			}
			for _, part := range tt.notParts {
				assert.NotContains(t, buf.String(), part)
			}
		})
	}
}

func TestTableWriter_HeaderFooter(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := testCmd(
		&cli.BoolFlag{Name: "color"},
		&cli.BoolFlag{Name: "titles"},
		&cli.IntFlag{Name: "padding"},
	)
	cmd.Metadata["header"] = "Upgrade path"
	cmd.Metadata["footer"] = "2 releases"

	rows := []map[string]interface{}{
		{"version": "1.0.0"},
		{"version": "1.1.0"},
	}
	al := attrs.AttrList{attrs.Attr{OutputKey: "version", Include: true}}

	TableWriter(rows, al, cmd, buf)

	out := buf.String()
	assert.Contains(t, out, "Upgrade path")
	assert.Contains(t, out, "2 releases")

	// The header renders before the rows and the footer after.
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Upgrade path")), bytes.Index(buf.Bytes(), []byte("1.0.0")))
	assert.Greater(t, bytes.Index(buf.Bytes(), []byte("2 releases")), bytes.Index(buf.Bytes(), []byte("1.1.0")))
}

func TestFlattenManifest(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		check func(*testing.T, gjson.Result)
	}{
		{
			name: "entry gains component columns",
			json: `[{"version": "1.2.5-rc.1+build.7", "channel": "candidate"}]`,
			check: func(t *testing.T, parsed gjson.Result) {
				require.True(t, parsed.IsArray())
				releases := parsed.Array()
				assert.Len(t, releases, 1)

				release := releases[0].Map()
				assert.Equal(t, "candidate", release["channel"].String())
				assert.Equal(t, int64(1), release["major"].Int())
				assert.Equal(t, int64(2), release["minor"].Int())
				assert.Equal(t, int64(5), release["patch"].Int())
				assert.Equal(t, "rc.1", release["prerelease"].String())
				assert.Equal(t, "build.7", release["build"].String())
				assert.Equal(t, "1.2.5-rc.1+build.7", release["semver"].String())
				assert.False(t, release["stable"].Bool())
			},
		},
		{
			name: "finished release is stable",
			json: `[{"version": "2.0.0"}]`,
			check: func(t *testing.T, parsed gjson.Result) {
				release := parsed.Array()[0]
				assert.True(t, release.Get("stable").Bool())
				assert.Equal(t, "", release.Get("prerelease").String())
			},
		},
		{
			name: "zero major is not stable",
			json: `[{"version": "0.9.0"}]`,
			check: func(t *testing.T, parsed gjson.Result) {
				assert.False(t, parsed.Array()[0].Get("stable").Bool())
			},
		},
		{
			name: "unparseable version keeps original fields only",
			json: `[{"version": "garbage", "channel": "beta"}]`,
			check: func(t *testing.T, parsed gjson.Result) {
				release := parsed.Array()[0]
				assert.Equal(t, "garbage", release.Get("version").String())
				assert.Equal(t, "beta", release.Get("channel").String())
				assert.False(t, release.Get("major").Exists())
				assert.False(t, release.Get("stable").Exists())
			},
		},
		{
			name: "leading v normalizes in semver column",
			json: `[{"version": "v1.2.3"}]`,
			check: func(t *testing.T, parsed gjson.Result) {
				release := parsed.Array()[0]
				assert.Equal(t, "v1.2.3", release.Get("version").String())
				assert.Equal(t, "1.2.3", release.Get("semver").String())
			},
		},
		{
			name: "meta survives flattening",
			json: `[{"version": "1.0.0", "meta": {"owner": "platform"}}]`,
			check: func(t *testing.T, parsed gjson.Result) {
				assert.Equal(t, "platform", parsed.Array()[0].Get("meta.owner").String())
			},
		},
		{
			name: "empty collection",
			json: `[]`,
			check: func(t *testing.T, parsed gjson.Result) {
				assert.Len(t, parsed.Array(), 0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flat := flattenManifest(gjson.Parse(tt.json))
			tt.check(t, gjson.ParseBytes(flat))
		})
	}
}

func TestSliceDiceSpit(t *testing.T) {
	manifestDoc := `{
		"product": "widget",
		"releases": [
			{"version": "1.10.0", "channel": "stable"},
			{"version": "1.9.0", "channel": "stable"},
			{"version": "0.9.0", "channel": "beta"},
			{"version": "garbage", "channel": "beta"}
		]
	}`

	newAttrs := func() attrs.AttrList {
		return attrs.AttrList{
			{Key: "version", OutputKey: "version", Include: true},
			{Key: "channel", OutputKey: "channel", Include: true},
			{Key: "major", OutputKey: "major", Include: true},
		}
	}

	newCmd := func(output, filter, sortSpec string) *cli.Command {
		return testCmd(
			&cli.StringFlag{Name: "output", Value: output},
			&cli.StringFlag{Name: "filter", Value: filter},
			&cli.StringFlag{Name: "sort", Value: sortSpec},
			&cli.BoolFlag{Name: "local"},
			&cli.BoolFlag{Name: "color"},
			&cli.BoolFlag{Name: "titles"},
			&cli.IntFlag{Name: "padding"},
		)
	}

	t.Run("json output sorts by version semantics", func(t *testing.T) {
		buf := new(bytes.Buffer)
		raw := *bytes.NewBufferString(manifestDoc)

		SliceDiceSpit(raw, newAttrs(), newCmd("json", "", "version"), "releases", buf, nil)

		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
		require.Len(t, rows, 4)

		assert.Equal(t, "0.9.0", rows[0]["version"])
		assert.Equal(t, "1.9.0", rows[1]["version"])
		assert.Equal(t, "1.10.0", rows[2]["version"])
		assert.Equal(t, "garbage", rows[3]["version"])

		// Flattening computed the major column.
		assert.Equal(t, float64(1), rows[2]["major"])
		assert.Nil(t, rows[3]["major"])
	})

	t.Run("filter trims the dataset", func(t *testing.T) {
		buf := new(bytes.Buffer)
		raw := *bytes.NewBufferString(manifestDoc)

		SliceDiceSpit(raw, newAttrs(), newCmd("json", "stable", "version"), "releases", buf, nil)

		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "1.9.0", rows[0]["version"])
		assert.Equal(t, "1.10.0", rows[1]["version"])
	})

	t.Run("raw output passes through", func(t *testing.T) {
		buf := new(bytes.Buffer)
		raw := *bytes.NewBufferString(manifestDoc)

		SliceDiceSpit(raw, newAttrs(), newCmd("raw", "", ""), "releases", buf, nil)

		assert.Equal(t, manifestDoc, buf.String())
	})

	t.Run("yaml output", func(t *testing.T) {
		buf := new(bytes.Buffer)
		raw := *bytes.NewBufferString(manifestDoc)

		SliceDiceSpit(raw, newAttrs(), newCmd("yaml", "stable", "version"), "releases", buf, nil)

		assert.Contains(t, buf.String(), "version: 1.9.0")
		assert.Contains(t, buf.String(), "channel: stable")
	})

	t.Run("table output honors writer", func(t *testing.T) {
		buf := new(bytes.Buffer)
		raw := *bytes.NewBufferString(manifestDoc)

		SliceDiceSpit(raw, newAttrs(), newCmd("text", "stable", "version"), "releases", buf, nil)

		assert.Contains(t, buf.String(), "1.9.0")
		assert.Contains(t, buf.String(), "1.10.0")
	})

	t.Run("post process sees filtered rows", func(t *testing.T) {
		buf := new(bytes.Buffer)
		raw := *bytes.NewBufferString(manifestDoc)

		var seen int
		post := func(rows []map[string]interface{}) error {
			seen = len(rows)
			return nil
		}

		SliceDiceSpit(raw, newAttrs(), newCmd("text", "stable", ""), "releases", buf, post)

		assert.Equal(t, 2, seen)
	})
}

func BenchmarkSortDataset(b *testing.B) {
	testData := []map[string]interface{}{
		{"version": "1.10.0", "patch": 0.0},
		{"version": "0.9.0", "patch": 1.0},
		{"version": "1.9.0", "patch": 9.0},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SortDataset(slices.Clone(testData), "version")
	}
}

func BenchmarkInterfaceToString(b *testing.B) {
	values := []interface{}{"text", 42, 42.5, true, nil, []string{"a", "b"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, v := range values {
			InterfaceToString(v)
		}
	}
}

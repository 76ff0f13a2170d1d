// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeManifest creates a test manifest with entries in scrambled document
// order, including one that does not parse.
func makeManifest() *Manifest {
	return &Manifest{
		Source: "releases.json",
		Path:   DefaultPath,
		Entries: []Entry{
			{Version: "1.0.0", Channel: "stable"},
			{Version: "2.0.0", Channel: "stable"},
			{Version: "1.2.0", Channel: "stable"},
			{Version: "not-a-version"},
			{Version: "1.2.5", Channel: "stable"},
			{Version: "2.1.0-rc.1", Channel: "candidate"},
			{Version: "0.9.0", Channel: "stable"},
		},
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		path         string
		wantVersions []string
		wantErr      bool
		errMsg       string
	}{
		{
			name:         "json manifest",
			file:         "releases.json",
			wantVersions: []string{"1.0.0", "1.2.0", "1.2.5", "2.0.0-rc.1", "2.0.0"},
		},
		{
			name:         "yaml manifest",
			file:         "releases.yaml",
			wantVersions: []string{"1.0.0", "1.2.0", "1.2.5", "2.0.0-rc.1", "2.0.0"},
		},
		{
			name:         "explicit path",
			file:         "releases.json",
			path:         "releases",
			wantVersions: []string{"1.0.0", "1.2.0", "1.2.5", "2.0.0-rc.1", "2.0.0"},
		},
		{
			name:    "missing file",
			file:    "nonexistent.json",
			wantErr: true,
			errMsg:  "failed to read manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Load(filepath.Join("testdata", tt.file), tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersions, m.Versions())
			assert.Equal(t, DefaultPath, m.Path)
			assert.NotEmpty(t, m.JSON)
		})
	}
}

func TestLoad_EncodingsAgree(t *testing.T) {
	jm, err := Load(filepath.Join("testdata", "releases.json"), "")
	require.NoError(t, err)
	ym, err := Load(filepath.Join("testdata", "releases.yaml"), "")
	require.NoError(t, err)

	assert.Equal(t, jm.Entries, ym.Entries)
}

func TestLoadBytes(t *testing.T) {
	tests := []struct {
		name         string
		doc          string
		path         string
		wantVersions []string
		wantErr      bool
		errMsg       string
	}{
		{
			name:         "bare json collection at custom path",
			doc:          `{"nightly": {"releases": [{"version": "0.1.0"}, {"version": "0.2.0"}]}}`,
			path:         "nightly.releases",
			wantVersions: []string{"0.1.0", "0.2.0"},
		},
		{
			name:         "yaml document",
			doc:          "releases:\n  - version: 1.0.0\n  - version: 1.1.0\n",
			wantVersions: []string{"1.0.0", "1.1.0"},
		},
		{
			name:    "missing collection",
			doc:     `{"channels": []}`,
			wantErr: true,
			errMsg:  `no "releases" collection`,
		},
		{
			name:    "collection is not an array",
			doc:     `{"releases": {"version": "1.0.0"}}`,
			wantErr: true,
			errMsg:  "is not a collection",
		},
		{
			name:    "scalar document",
			doc:     "hello",
			wantErr: true,
			errMsg:  `no "releases" collection`,
		},
		{
			name:    "unparseable document",
			doc:     `{"releases": [`,
			wantErr: true,
			errMsg:  "failed to parse manifest",
		},
		{
			name:    "entry missing version",
			doc:     `{"releases": [{"channel": "stable"}]}`,
			wantErr: true,
			errMsg:  "failed validation",
		},
		{
			name:    "entry version wrong type",
			doc:     `{"releases": [{"version": 1.2}]}`,
			wantErr: true,
			errMsg:  "failed validation",
		},
		{
			name:    "entry version empty",
			doc:     `{"releases": [{"version": ""}]}`,
			wantErr: true,
			errMsg:  "failed validation",
		},
		{
			name:    "entry meta wrong type",
			doc:     `{"releases": [{"version": "1.0.0", "meta": "prod"}]}`,
			wantErr: true,
			errMsg:  "failed validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := LoadBytes([]byte(tt.doc), "test.doc", tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersions, m.Versions())
		})
	}
}

func TestLoad_MetaSurvivesRoundTrip(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "releases.json"), "")
	require.NoError(t, err)

	last := m.Entries[len(m.Entries)-1]
	assert.Equal(t, "2.0.0", last.Version)
	assert.Equal(t, "platform", last.Meta["owner"])
}

func TestVersions_PreservesDocumentOrder(t *testing.T) {
	m := makeManifest()

	want := []string{"1.0.0", "2.0.0", "1.2.0", "not-a-version", "1.2.5", "2.1.0-rc.1", "0.9.0"}
	assert.Equal(t, want, m.Versions())
}

func TestReleased(t *testing.T) {
	m := makeManifest()

	got := m.Released()

	versions := make([]string, 0, len(got))
	for _, e := range got {
		versions = append(versions, e.Version)
	}

	want := []string{"2.1.0-rc.1", "2.0.0", "1.2.5", "1.2.0", "1.0.0", "0.9.0"}
	assert.Equal(t, want, versions, "most recent first, unparseable dropped")
}

func TestReleased_Empty(t *testing.T) {
	m := &Manifest{Entries: []Entry{{Version: "nope"}}}
	assert.Empty(t, m.Released())
}

func TestUpgrades(t *testing.T) {
	m := makeManifest()

	tests := []struct {
		name    string
		from    string
		to      string
		want    []string
		wantErr bool
	}{
		{
			name: "interior window",
			from: "1.0.0",
			to:   "2.0.0",
			want: []string{"1.2.0", "1.2.5", "2.0.0"},
		},
		{
			name: "partial bounds",
			from: "1.2",
			to:   "2",
			want: []string{"1.2.5", "2.0.0"},
		},
		{
			name: "window includes candidate",
			from: "2.0.0",
			to:   "3.0.0",
			want: []string{"2.1.0-rc.1"},
		},
		{
			name: "empty window",
			from: "2.1.0",
			to:   "2.1.0",
			want: []string{},
		},
		{
			name: "from above everything",
			from: "9.0.0",
			to:   "10.0.0",
			want: []string{},
		},
		{
			name:    "malformed from",
			from:    "x.y.z",
			to:      "2.0.0",
			wantErr: true,
		},
		{
			name:    "malformed to",
			from:    "1.0.0",
			to:      "garbage",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Upgrades(tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

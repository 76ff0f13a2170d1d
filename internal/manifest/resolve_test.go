// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	m := makeManifest()

	tests := []struct {
		name         string
		manifest     *Manifest
		specs        []string
		wantVersions []string
		wantErr      bool
		errMsg       string
	}{
		{
			name:         "no specs defaults to latest",
			manifest:     m,
			specs:        []string{},
			wantVersions: []string{"2.1.0-rc.1"},
		},
		{
			name:         "latest keyword",
			manifest:     m,
			specs:        []string{"latest"},
			wantVersions: []string{"2.1.0-rc.1"},
		},
		{
			name:         "latest keyword is case insensitive",
			manifest:     m,
			specs:        []string{"LATEST"},
			wantVersions: []string{"2.1.0-rc.1"},
		},
		{
			name:         "empty spec means latest",
			manifest:     m,
			specs:        []string{""},
			wantVersions: []string{"2.1.0-rc.1"},
		},
		{
			name:         "latest with offset",
			manifest:     m,
			specs:        []string{"latest~1"},
			wantVersions: []string{"2.0.0"},
		},
		{
			name:         "latest with offset to oldest",
			manifest:     m,
			specs:        []string{"latest~5"},
			wantVersions: []string{"0.9.0"},
		},
		{
			name:         "multiple specs",
			manifest:     m,
			specs:        []string{"latest", "1"},
			wantVersions: []string{"2.1.0-rc.1", "1.2.5"},
		},
		{
			name:         "exact and relative pair",
			manifest:     m,
			specs:        []string{"1.0.0", "latest~1"},
			wantVersions: []string{"1.0.0", "2.0.0"},
		},
		{
			name:     "offset out of range",
			manifest: m,
			specs:    []string{"latest~6"},
			wantErr:  true,
			errMsg:   "out of range",
		},
		{
			name:     "error in second spec",
			manifest: m,
			specs:    []string{"latest", "latest~99"},
			wantErr:  true,
			errMsg:   "out of range",
		},
		{
			name:     "empty manifest",
			manifest: &Manifest{},
			specs:    []string{"latest"},
			wantErr:  true,
			errMsg:   "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.manifest, tt.specs...)
			if tt.wantErr {
				assert.Error(t, err, "expected error")
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err, "unexpected error")
				assert.Len(t, got, len(tt.wantVersions), "result count mismatch")
				for i, v := range tt.wantVersions {
					assert.Equal(t, v, got[i].Version, "version mismatch at index %d", i)
				}
			}
		})
	}
}

func TestResolveLatestSpec(t *testing.T) {
	releases := makeManifest().Released()

	tests := []struct {
		name     string
		spec     string
		releases []Entry
		want     string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "offset zero",
			spec:     "latest~0",
			releases: releases,
			want:     "2.1.0-rc.1",
		},
		{
			name:     "offset two",
			spec:     "latest~2",
			releases: releases,
			want:     "1.2.5",
		},
		{
			name:     "offset out of range",
			spec:     "latest~100",
			releases: releases,
			wantErr:  true,
			errMsg:   "out of range",
		},
		{
			name:     "non-numeric offset",
			spec:     "latest~abc",
			releases: releases,
			wantErr:  true,
			errMsg:   "invalid latest index",
		},
		{
			name:     "multiple tildes",
			spec:     "latest~1~2",
			releases: releases,
			wantErr:  true,
			errMsg:   "invalid latest spec format",
		},
		{
			name:     "negative offset",
			spec:     "latest~-1",
			releases: releases,
			wantErr:  true,
			errMsg:   "out of range",
		},
		{
			name:     "empty release list",
			spec:     "latest~0",
			releases: []Entry{},
			wantErr:  true,
			errMsg:   "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveLatestSpec(tt.spec, tt.releases)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got.Version)
			}
		})
	}
}

func TestResolveExactSpec(t *testing.T) {
	releases := makeManifest().Released()

	tests := []struct {
		name    string
		spec    string
		want    string
		wantErr bool
	}{
		{
			name: "exact match",
			spec: "1.2.0",
			want: "1.2.0",
		},
		{
			name: "leading v tolerated",
			spec: "v1.2.5",
			want: "1.2.5",
		},
		{
			name: "candidate matched exactly",
			spec: "2.1.0-rc.1",
			want: "2.1.0-rc.1",
		},
		{
			name:    "version not in manifest",
			spec:    "3.0.0",
			wantErr: true,
		},
		{
			name:    "candidate level mismatch",
			spec:    "2.1.0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveExactSpec(tt.spec, releases)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoMatch)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got.Version)
			}
		})
	}
}

func TestResolvePrefixSpec(t *testing.T) {
	releases := makeManifest().Released()

	tests := []struct {
		name    string
		spec    string
		want    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "major line",
			spec: "1",
			want: "1.2.5",
		},
		{
			name: "major line newest is a candidate",
			spec: "2",
			want: "2.1.0-rc.1",
		},
		{
			name: "major minor line",
			spec: "1.2",
			want: "1.2.5",
		},
		{
			name: "zero major line",
			spec: "0",
			want: "0.9.0",
		},
		{
			name: "leading v tolerated",
			spec: "v1",
			want: "1.2.5",
		},
		{
			name:    "line not in manifest",
			spec:    "3",
			wantErr: true,
			errMsg:  "no release matches spec",
		},
		{
			name:    "minor line not in manifest",
			spec:    "1.9",
			wantErr: true,
			errMsg:  "no release matches spec",
		},
		{
			name:    "too many parts",
			spec:    "1.2.3.4",
			wantErr: true,
			errMsg:  "invalid release spec",
		},
		{
			name:    "non-numeric part",
			spec:    "abc",
			wantErr: true,
			errMsg:  "invalid release spec",
		},
		{
			name:    "negative part",
			spec:    "-1",
			wantErr: true,
			errMsg:  "invalid release spec",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePrefixSpec(tt.spec, releases)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got.Version)
			}
		})
	}
}

func TestResolveSpec_Dispatch(t *testing.T) {
	releases := makeManifest().Released()

	tests := []struct {
		name string
		spec string
		want string
	}{
		{
			name: "latest dispatch",
			spec: "latest~1",
			want: "2.0.0",
		},
		{
			name: "exact dispatch",
			spec: "1.0.0",
			want: "1.0.0",
		},
		{
			name: "prefix dispatch",
			spec: "1.2",
			want: "1.2.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSpec(tt.spec, releases)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.Version)
		})
	}
}

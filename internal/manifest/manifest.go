// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/svctl/svctl/internal/semver"
)

// DefaultPath is the dotted path to the release collection in a manifest
// document when no explicit path is configured.
const DefaultPath = "releases"

// Entry is a single release in a manifest. Only Version is required. Meta
// carries whatever extra attributes the manifest author wants to track
// (platforms, checksums, owners).
type Entry struct {
	Version  string                 `json:"version" yaml:"version"`
	Released string                 `json:"released,omitempty" yaml:"released,omitempty"`
	Channel  string                 `json:"channel,omitempty" yaml:"channel,omitempty"`
	Notes    string                 `json:"notes,omitempty" yaml:"notes,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Manifest is a loaded release manifest. JSON holds the full document
// normalized to JSON, regardless of the source encoding, so downstream
// consumers can query it with gjson paths.
type Manifest struct {
	Source  string
	Path    string
	JSON    []byte
	Entries []Entry
}

// Load reads a manifest from a file, or from stdin when source is "-", and
// extracts the release collection at path (DefaultPath when empty).
func Load(source string, path string) (*Manifest, error) {
	doc, err := readSource(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", source, err)
	}

	return LoadBytes(doc, source, path)
}

// LoadBytes parses an in-memory manifest document. The document may be JSON
// or YAML. The release collection at path is validated against the release
// schema before being unmarshaled.
func LoadBytes(doc []byte, source string, path string) (*Manifest, error) {
	jsonDoc, err := toJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", source, err)
	}

	if path == "" {
		path = DefaultPath
	}

	slice := gjson.GetBytes(jsonDoc, path)
	if !slice.Exists() {
		return nil, fmt.Errorf("no %q collection in manifest %s", path, source)
	}
	if !slice.IsArray() {
		return nil, fmt.Errorf("%q in manifest %s is not a collection", path, source)
	}

	if err := validateEntries([]byte(slice.Raw)); err != nil {
		return nil, fmt.Errorf("manifest %s failed validation: %w", source, err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(slice.Raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal releases from %s: %w", source, err)
	}

	return &Manifest{
		Source:  source,
		Path:    path,
		JSON:    jsonDoc,
		Entries: entries,
	}, nil
}

// readSource reads the raw manifest document. "-" means stdin.
func readSource(source string) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(source)
}

// toJSON normalizes a manifest document to JSON. Documents that are already
// valid JSON pass through untouched.
func toJSON(doc []byte) ([]byte, error) {
	if json.Valid(doc) {
		return doc, nil
	}

	var v interface{}
	if err := yaml.Unmarshal(doc, &v); err != nil {
		return nil, err
	}

	return json.Marshal(v)
}

// Versions returns the entry versions in document order, including any that
// do not parse. Callers that need only well-formed versions should go
// through Released.
func (m *Manifest) Versions() []string {
	versions := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		versions = append(versions, e.Version)
	}

	return versions
}

// Released returns the entries with parseable versions, most recent first.
// Entries whose version does not parse are skipped.
func (m *Manifest) Released() []Entry {
	valid := make([]Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		if !semver.Valid(e.Version) {
			log.Debugf("skipping release with unparseable version %q", e.Version)
			continue
		}
		valid = append(valid, e)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		vi, _ := semver.Parse(valid[i].Version)
		vj, _ := semver.Parse(valid[j].Version)
		return vj.Compare(vi) < 0
	})

	return valid
}

// Upgrades returns, in ascending order, every release version v in the
// manifest with from < v <= to. from and to may be partial versions.
func (m *Manifest) Upgrades(from string, to string) ([]string, error) {
	// Validates both bounds in one shot.
	if _, err := semver.Compare(from, to); err != nil {
		return nil, err
	}

	result := []string{}

	// Released is most recent first, so walk it from the tail up.
	releases := m.Released()
	for i := len(releases) - 1; i >= 0; i-- {
		v := releases[i].Version
		afterFrom, _ := semver.Compare(v, from)
		if afterFrom <= 0 {
			continue
		}
		beyondTo, _ := semver.Compare(v, to)
		if beyondTo > 0 {
			continue
		}
		result = append(result, v)
	}

	return result, nil
}

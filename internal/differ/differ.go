// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Diff renders what changed between two manifest documents, expressed
// against the left one.
func Diff(ctx context.Context, cmd *cli.Command, left, right []byte) error {
	if len(left) == 0 || len(right) == 0 {
		return nil
	}
	log.Debugf("diffing manifests: %d and %d bytes", len(left), len(right))

	delta, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return fmt.Errorf("failed to compare manifests: %w", err)
	}
	if !delta.Modified() {
		fmt.Fprintln(os.Stdout, "The manifests are identical.")
		return nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(left, &jdoc); err != nil {
		return fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	// diff_filter names top-level keys to leave out of the rendering.
	for key := range strings.SplitSeq(cmd.String("diff_filter"), ",") {
		if key != "" {
			delete(jdoc, key)
		}
	}

	// Array indexes are shown so that a changed entry can be traced back to
	// its position in the release collection.
	f := formatter.NewAsciiFormatter(jdoc, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       cmd.Bool("color"),
	})
	rendered, err := f.Format(delta)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, rendered)
	return nil
}

// FindManifests returns the manifest files found directly under dir. Files
// are matched by extension. ReadDir returns entries sorted by name, so the
// result is stable.
func FindManifests(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var found []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			found = append(found, filepath.Join(dir, entry.Name()))
		}
	}

	return found, nil
}

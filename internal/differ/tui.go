// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/svctl/svctl/internal/manifest"
)

// SelectManifests runs an interactive picker allowing exactly two manifests
// to be chosen for comparison. A nil result means the user bailed out.
func SelectManifests(items []*manifest.Manifest) []*manifest.Manifest {
	res, err := tea.NewProgram(picker{items: items}).Run()
	if err != nil {
		return nil
	}
	return res.(picker).selected
}

// picker is the Bubble Tea model behind the manifest chooser.
type picker struct {
	items    []*manifest.Manifest
	cursor   int
	selected []*manifest.Manifest
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "w":
		return p, tea.WindowSize()
	case "q", "esc":
		p.selected = nil
		return p, tea.Quit
	case "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case " ":
		p = p.toggle()
	case "enter":
		if len(p.selected) == 2 {
			return p, tea.Quit
		}
	}
	return p, nil
}

// toggle selects the manifest under the cursor, or deselects it when already
// picked. Selection caps at the two manifests a diff takes.
func (p picker) toggle() picker {
	mf := p.items[p.cursor]
	if i := selectedIndex(p.selected, mf); i >= 0 {
		p.selected = slices.Delete(p.selected, i, i+1)
		return p
	}
	if len(p.selected) < 2 {
		p.selected = append(p.selected, mf)
	}
	return p
}

func (p picker) View() string {
	var b strings.Builder
	b.WriteString("Select two manifests:\n\n")

	for i, mf := range p.items {
		cursor := " "
		if p.cursor == i {
			cursor = ">"
		}
		mark := " "
		if selectedIndex(p.selected, mf) >= 0 {
			mark = "x"
		}
		fmt.Fprintf(&b, "%s [%s] %-40s %4d releases  latest %s\n",
			cursor, mark, mf.Source, len(mf.Entries), latest(mf))
	}

	b.WriteString("\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n")
	return b.String()
}

// latest returns the newest released version in the manifest, or a dash if
// the manifest has no parseable releases.
func latest(m *manifest.Manifest) string {
	released := m.Released()
	if len(released) == 0 {
		return "-"
	}
	return released[0].Version
}

// selectedIndex locates a manifest in the selection by source path.
func selectedIndex(selected []*manifest.Manifest, mf *manifest.Manifest) int {
	return slices.IndexFunc(selected, func(s *manifest.Manifest) bool {
		return s.Source == mf.Source
	})
}

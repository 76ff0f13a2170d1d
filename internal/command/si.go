// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/command/si"
	"github.com/svctl/svctl/internal/config"
	"github.com/svctl/svctl/internal/manifest"
	"github.com/svctl/svctl/internal/meta"
)

func siCommandAction(ctx context.Context, cmd *cli.Command) error {
	// siCommandAction is the action handler for the "si" subcommand. It
	// optionally loads a release manifest and launches an interactive console
	// for evaluating versions, ranges, and upgrade paths.
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	config.Config.Namespace = "si"

	// The manifest is optional. The console evaluates versions and ranges
	// without one; upgrade and latest queries need it.
	var mf *manifest.Manifest
	if source := siManifestSource(cmd); source != "" {
		var err error
		if mf, err = manifest.Load(source, cmd.String("path")); err != nil {
			return err
		}
	}

	return runSiInteractiveConsole(si.Console{Manifest: mf})
}

// siManifestSource resolves the console's manifest from the positional
// argument or the --manifest flag. stdin is not an option here since the
// terminal belongs to the console.
func siManifestSource(cmd *cli.Command) string {
	if args := cmd.Args().Slice(); len(args) > 0 {
		return args[0]
	}
	return cmd.String("manifest")
}

// siExchange pairs a console entry with the result it produced.
type siExchange struct {
	entry  string
	result string
}

// siModel is the Bubble Tea model behind the console. The transcript holds
// this session's exchanges; history also carries entries loaded from the
// history file, so arrow keys can recall lines from earlier sessions.
type siModel struct {
	input      textinput.Model
	banner     []string
	transcript []siExchange
	history    []string
	histIndex  int // -1 while not navigating
	console    si.Console
}

func initialSiModel(console si.Console) siModel {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)

	return siModel{
		input:     ti,
		banner:    siBanner(console),
		history:   loadSiHistory(getSiHistoryFile()),
		histIndex: -1,
		console:   console,
	}
}

func siBanner(console si.Console) []string {
	greeting := "Interactive semver console. No manifest loaded."
	if console.Manifest != nil {
		greeting = fmt.Sprintf("Interactive semver console. %d releases loaded from %s.",
			len(console.Manifest.Entries), console.Manifest.Source)
	}
	return []string{greeting, "Type 'help' for syntax, 'exit' or Ctrl+C to quit."}
}

func (m siModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m siModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			return m.submit()
		case "up":
			return m.recallOlder(), nil
		case "down":
			return m.recallNewer(), nil
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit evaluates the current input line and appends the exchange to the
// transcript. "exit"/"quit" end the session and "help" prints the syntax
// summary; everything else goes to the console evaluator.
func (m siModel) submit() (tea.Model, tea.Cmd) {
	entry := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if entry == "" {
		return m, nil
	}
	if entry == "exit" || entry == "quit" {
		return m, tea.Quit
	}

	result := getSiHelp()
	if entry != "help" {
		result = m.console.Eval(entry)
	}

	m.transcript = append(m.transcript, siExchange{entry: entry, result: result})
	m.history = append(m.history, entry)
	m.histIndex = -1
	saveSiHistory(getSiHistoryFile(), m.history)
	return m, nil
}

// recallOlder steps the prompt back through history, stopping at the
// oldest entry.
func (m siModel) recallOlder() siModel {
	if len(m.history) == 0 {
		return m
	}
	if m.histIndex == -1 {
		m.histIndex = len(m.history)
	}
	if m.histIndex > 0 {
		m.histIndex--
	}
	m.input.SetValue(m.history[m.histIndex])
	m.input.CursorEnd()
	return m
}

// recallNewer steps forward again, landing on a blank prompt past the
// newest entry. It does nothing unless an up arrow started the recall, so
// a stray down arrow never clears a line being typed.
func (m siModel) recallNewer() siModel {
	if m.histIndex == -1 {
		return m
	}
	if m.histIndex < len(m.history)-1 {
		m.histIndex++
		m.input.SetValue(m.history[m.histIndex])
	} else {
		m.histIndex = -1
		m.input.SetValue("")
	}
	m.input.CursorEnd()
	return m
}

func (m siModel) View() string {
	prompt := lipgloss.NewStyle().Foreground(lipgloss.Color("#00ADD8")).Render("> ")

	lines := append([]string{}, m.banner...)
	for _, ex := range m.transcript {
		lines = append(lines, prompt+ex.entry, ex.result)
	}
	lines = append(lines, prompt+m.input.View())

	return strings.Join(lines, "\n")
}

// getSiHelp is the canned response to the help command.
func getSiHelp() string {
	return `Console syntax:
  validate <version>               - Check a version against the grammar
  clean <version>                  - Normalize to canonical form
  compare <a> <b>                  - Order two versions (-1, 0, 1)
  satisfies <version> <range>      - Evaluate a version against a range
  upgrades [from] [to]             - Upgrade path through the manifest
  latest [spec]                    - Resolve a release spec (latest~N, 1.2)

  Ranges use explicit operators joined by spaces (AND) and | (OR):
     satisfies 1.4.0 >=1.0.0 <2.0.0
     satisfies 2.1.0 <1.0.0 | >=2.0.0

  Navigation:
     up/down arrows                - Navigate command history
     Ctrl+C                        - Exit

  Examples:
     clean v1.2
     upgrades 1.0.0 latest`
}

// getSiHistoryFile returns the history file path, preferring the si.history
// config key over the default in the home directory.
func getSiHistoryFile() string {
	if path, err := config.GetString("si.history"); err == nil && path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".svctl_si_history"
	}
	return filepath.Join(homeDir, ".svctl_si_history")
}

// maxSiHistory caps the history file at the newest entries.
const maxSiHistory = 1000

func loadSiHistory(filename string) []string {
	data, err := os.ReadFile(filename)
	if err != nil {
		// First run, or the file went away. Start fresh.
		return nil
	}

	var history []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			history = append(history, line)
		}
	}
	return history
}

func saveSiHistory(filename string, history []string) {
	if len(history) == 0 {
		return
	}
	if len(history) > maxSiHistory {
		history = history[len(history)-maxSiHistory:]
	}

	// Best effort. The console works without persisted history.
	_ = os.WriteFile(filename, []byte(strings.Join(history, "\n")+"\n"), 0o644)
}

func runSiInteractiveConsole(console si.Console) error {
	p := tea.NewProgram(initialSiModel(console))
	_, err := p.Run()
	return err
}

// siCommandBuilder constructs the "si" subcommand.
func siCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "si",
		Usage:     "semver console",
		UsageText: "svctl si [manifest] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			tldrFlag,
			NewManifestFlag("si", meta.Config.Source),
			NewPathFlag("si", meta.Config.Source),
		},
		Action: siCommandAction,
	}
}

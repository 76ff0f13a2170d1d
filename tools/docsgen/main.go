package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// Catalog is the docs/templates/svctl.yaml document: one entry per
// subcommand, plus the flags the query commands share.
type Catalog struct {
	Subcommands []Subcommand `yaml:"subcommands"`
	Common      Common       `yaml:"common"`
}

type Common struct {
	Flags []Flag `yaml:"flags"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Common      bool      `yaml:"common,omitempty"`
	Flags       []Flag    `yaml:"flags,omitempty"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	More        string `yaml:"more,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

// PageData is what the templates see: the catalog entry plus the stamp
// fields shared by every page.
type PageData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

// target names one output flavor: the template that drives it and where
// the rendered pages land.
type target struct {
	template string
	dir      string
	prefix   string
	suffix   string
}

func main() {
	docs := "docs"
	if len(os.Args) > 1 {
		docs = os.Args[1]
	}

	if err := run(docs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(docs string) error {
	catalog, err := loadCatalog(filepath.Join(docs, "templates", "svctl.yaml"))
	if err != nil {
		return err
	}

	targets := []target{
		{template: "svctl.md.tmpl", dir: filepath.Join(docs, "commands"), suffix: ".md"},
		{template: "svctl.man.tmpl", dir: filepath.Join(docs, "man", "share", "man1"), prefix: "svctl-", suffix: ".1"},
		{template: "svctl.tldr.tmpl", dir: filepath.Join(docs, "tldr"), prefix: "svctl-", suffix: ".md"},
	}

	date := time.Now().Format("January 2, 2006")
	version := gitVersion()

	for _, t := range targets {
		tmpl, err := template.ParseFiles(filepath.Join(docs, "templates", t.template))
		if err != nil {
			return err
		}
		if err := os.MkdirAll(t.dir, 0755); err != nil {
			return err
		}

		for _, sub := range catalog.Subcommands {
			page := PageData{
				Subcommand: sub,
				Date:       date,
				Version:    version,
				IDUpper:    strings.ToUpper(sub.ID),
			}
			if err := renderPage(tmpl, t, page); err != nil {
				return err
			}
		}
	}

	return nil
}

func loadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}

	// Entries marked common take the shared query flags alongside their
	// own, sorted into one list per page.
	for i, sub := range catalog.Subcommands {
		if !sub.Common {
			continue
		}
		flags := append(slices.Clone(catalog.Common.Flags), sub.Flags...)
		slices.SortFunc(flags, func(a, b Flag) int { return strings.Compare(a.ID, b.ID) })
		catalog.Subcommands[i].Flags = flags
	}

	return catalog, nil
}

func renderPage(tmpl *template.Template, t target, page PageData) error {
	path := filepath.Join(t.dir, t.prefix+page.ID+t.suffix)
	fmt.Println("Generating", path)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return tmpl.Execute(file, page)
}

// gitVersion returns the newest tag without its leading v, or "dev" outside
// a tagged checkout.
func gitVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}
	return strings.TrimPrefix(strings.TrimSpace(string(out)), "v")
}

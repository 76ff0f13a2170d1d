// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/config"
	"github.com/svctl/svctl/internal/manifest"
)

var (
	schemaFlag = &cli.BoolFlag{
		Name:        "schema",
		Usage:       "list the attributes available to --attrs, --filter and --sort",
		HideDefault: true,
	}

	// The tldr flag only shows up in help when the tldr client is installed.
	tldrFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show the tldr page",
		Hidden:      !inPath("tldr"),
		HideDefault: true,
	}

	quietFlag = &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "suppress output and report via the exit status",
	}
)

// NewGlobalFlags returns the flag set shared by the list-producing commands.
// The padding default comes from the config file when present.
func NewGlobalFlags() []cli.Flag {
	padding, _ := config.GetInt("padding", 2)

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "attributes to include in output, as key[:title[:transform]] specs",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "colorize text output",
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters, e.g. channel=stable or stable",
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "render released timestamps in local time",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml, raw)",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "extra spaces between output columns",
			Value: padding,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "attributes to sort by, prefix with - for descending",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show column titles with text output",
		},
	}
}

// NewManifestFlag builds the "manifest" flag for the ns command. The value
// falls back to SVCTL_MANIFEST and then the config file, so commands that
// accept a positional manifest argument still carry the flag.
func NewManifestFlag(ns string, configFile string) *cli.StringFlag {
	return withConfigSources(ns, configFile, &cli.StringFlag{
		Name:    "manifest",
		Aliases: []string{"m"},
		Usage:   "release manifest to query. '-' reads from stdin",
		Sources: cli.NewValueSourceChain(cli.EnvVar("SVCTL_MANIFEST")),
	})
}

// NewPathFlag builds the "path" flag for the ns command, the dot path that
// locates the release collection inside a wrapper document.
func NewPathFlag(ns string, configFile string) *cli.StringFlag {
	return withConfigSources(ns, configFile, &cli.StringFlag{
		Name:    "path",
		Usage:   "dot path to the release collection within the manifest",
		Sources: cli.NewValueSourceChain(cli.EnvVar("SVCTL_PATH")),
		Value:   manifest.DefaultPath,
	})
}

// withConfigSources appends the config file lookups to the flag's source
// chain, the command-namespaced key ahead of the bare one. Without a config
// file the flag keeps its existing sources.
func withConfigSources(ns string, configFile string, flag *cli.StringFlag) *cli.StringFlag {
	if configFile == "" {
		return flag
	}

	flag.Sources.Chain = append(flag.Sources.Chain,
		yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(configFile)),
		yaml.YAML(flag.Name, altsrc.StringSourcer(configFile)))

	return flag
}

// inPath reports whether the given executable is available on PATH.
func inPath(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}

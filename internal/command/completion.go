// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/svctl/svctl/internal/meta"
)

const bashCompletionScript = `# bash completion for svctl
_svctl()
{
    local cur=${COMP_WORDS[COMP_CWORD]}
    local prev=${COMP_WORDS[COMP_CWORD-1]}
    COMPREPLY=()

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "validate clean compare satisfies uq rq diff si push completion --help --version" -- "$cur") )
        return 0
    fi

    local cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --local -l --output -o --padding --sort -s --titles -t --tldr"

    # First non-flag word after the subcommand fills the positional slot.
    local pos_taken=0 w
    for w in "${COMP_WORDS[@]:2:COMP_CWORD-2}"; do
        [[ $w == -* ]] || pos_taken=1
    done

    # pos is the kind of positional the command takes: directories, files,
    # or none (versions and ranges are typed, not completed).
    local opts pos
    case "$cmd" in
        validate|clean)
            opts="$common --schema"
            pos=""
            ;;
        compare)
            opts="--tldr"
            pos=""
            ;;
        satisfies)
            opts="--quiet -q --tldr"
            pos=""
            ;;
        uq)
            opts="$common --schema --manifest -m --path --from --to --satisfies"
            pos="files"
            ;;
        rq)
            opts="$common --schema --installed -i"
            pos="dirs"
            ;;
        diff)
            opts="--color -c --path --tldr"
            pos="files"
            ;;
        si)
            opts="--manifest -m --path --tldr"
            pos="files"
            ;;
        push)
            opts="--manifest --remote --branch --message -m --attempts --backoff --tldr"
            pos="dirs"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            opts="$common"
            pos=""
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml raw" -- "$cur") )
        return 0
    fi

    # Flags, unless an open positional slot wants a path.
    if [[ "$cur" == -* || -z "$pos" || $pos_taken -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    if [[ "$pos" == "dirs" ]]; then
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
    else
        COMPREPLY=( $(compgen -o default -- "$cur") )
    fi
    return 0
}

complete -F _svctl svctl
`

const zshCompletionScript = `#compdef svctl

_svctl() {
  local -a cmds
  cmds=(
    'validate:validate versions'
    'clean:normalize versions to canonical form'
    'compare:order two versions'
    'satisfies:evaluate a version against a range'
    'uq:upgrade query'
    'rq:requirements query'
    'diff:diff release manifests'
    'si:interactive semver console'
    'push:commit and push the manifest'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
    '(-a --attrs)'{-a,--attrs}'[attributes to include in output]:attrs'
    '(-c --color)'{-c,--color}'[colorize text output]'
    '(-f --filter)'{-f,--filter}'[comma-separated filters]:filters'
    '(-l --local)'{-l,--local}'[render released timestamps in local time]'
    '(-o --output)'{-o,--output}'[output format]:format:(text json yaml raw)'
    '--padding[extra spaces between output columns]:spaces'
    '(-s --sort)'{-s,--sort}'[attributes to sort by]:attrs'
    '(-t --titles)'{-t,--titles}'[show column titles]'
    '--tldr[show the tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'svctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    validate|clean)
      _arguments -C \
        $common \
        '--schema[list the available attributes]' \
        '*::version:'
      ;;
    compare)
      _arguments -C \
        '--tldr[show the tldr page]' \
        '1::version:' \
        '2::version:'
      ;;
    satisfies)
      _arguments -C \
        '(-q --quiet)'{-q,--quiet}'[report via exit status]' \
        '--tldr[show the tldr page]' \
        '1::version:' \
        '2::range:'
      ;;
    uq)
      _arguments -C \
        $common \
        '--schema[list the available attributes]' \
        '(-m --manifest)'{-m,--manifest}'[release manifest]:manifest:_files' \
        '--path[dot path to the release collection]:path' \
        '--from[exclude releases at or below this spec]:spec' \
        '--to[exclude releases above this spec]:spec' \
        '--satisfies[only include releases in this range]:range' \
        '::manifest:_files'
      ;;
    rq)
      _arguments -C \
        $common \
        '--schema[list the available attributes]' \
        '(-i --installed)'{-i,--installed}'[version to evaluate against]:version' \
        '::RootDir:_directories'
      ;;
    diff)
      _arguments -C \
        '(-c --color)'{-c,--color}'[colorize text output]' \
        '--path[dot path to the release collection]:path' \
        '--tldr[show the tldr page]' \
        '1::manifest:_files' \
        '2::manifest:_files'
      ;;
    si)
      _arguments -C \
        '(-m --manifest)'{-m,--manifest}'[release manifest]:manifest:_files' \
        '--path[dot path to the release collection]:path' \
        '--tldr[show the tldr page]' \
        '::manifest:_files'
      ;;
    push)
      _arguments -C \
        '--manifest[manifest path to stage]:manifest:_files' \
        '--remote[git remote to push to]:remote' \
        '--branch[branch to push]:branch' \
        '(-m --message)'{-m,--message}'[commit message]:message' \
        '--attempts[push attempts before giving up]:attempts' \
        '--backoff[seconds between push attempts]:backoff' \
        '--tldr[show the tldr page]' \
        '::RootDir:_directories'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# Register directly when sourced rather than autoloaded from fpath.
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _svctl svctl
`

// completionCommandAction emits the completion script for the shell named by
// the positional argument, falling back to the basename of $SHELL.
func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := filepath.Base(os.Getenv("SHELL"))
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}

	switch shell {
	case "bash":
		fmt.Print(bashCompletionScript)
	case "zsh":
		fmt.Print(zshCompletionScript)
	default:
		return fmt.Errorf("no completion script for %q, pass bash or zsh", shell)
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "svctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}

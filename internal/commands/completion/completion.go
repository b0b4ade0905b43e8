package completion

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/commitformat/internal/config"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/ui"
)

const bashCompletionScript = `#! /bin/bash

_commitformat_bash_autocomplete() {
  if [[ "${COMP_WORDS[0]}" != "source" ]]; then
    local cur opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    local cmd_context=("${COMP_WORDS[@]:0:$COMP_CWORD}")
    opts=$( "${cmd_context[@]}" --generate-shell-completion )
    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
  fi
}

complete -o bashdefault -o default -o nospace -F _commitformat_bash_autocomplete commitformat
`

const zshCompletionScript = `#compdef commitformat

_commitformat() {
  local -a opts
  local cmd_context=("${(@)words[1,$CURRENT-1]}")
  opts=("${(@f)$("${cmd_context[@]}" --generate-shell-completion)}")
  _describe 'values' opts
}

compdef _commitformat commitformat
`

const installMarker = "# commitformat shell completion"

const installInfo = `
` + installMarker + `
if command -v commitformat >/dev/null 2>&1; then
	source <(commitformat completion %s)
fi
`

type CompletionCommand struct {
	out     io.Writer
	shell   func() string
	homeDir func() (string, error)
}

func NewCompletionCommand() *CompletionCommand {
	return &CompletionCommand{
		out:     os.Stdout,
		shell:   func() string { return os.Getenv("SHELL") },
		homeDir: os.UserHomeDir,
	}
}

func (c *CompletionCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "completion",
		Usage: t.GetMessage("completion.command_usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "bash",
				Usage: t.GetMessage("completion.bash_usage", 0, nil),
				Action: func(context.Context, *cli.Command) error {
					_, err := fmt.Fprint(c.out, bashCompletionScript)
					return err
				},
			},
			{
				Name:  "zsh",
				Usage: t.GetMessage("completion.zsh_usage", 0, nil),
				Action: func(context.Context, *cli.Command) error {
					_, err := fmt.Fprint(c.out, zshCompletionScript)
					return err
				},
			},
			{
				Name:  "install",
				Usage: t.GetMessage("completion.install_usage", 0, nil),
				Action: func(context.Context, *cli.Command) error {
					return c.install(t)
				},
			},
		},
	}
}

// install appends the loader to the shell rc file once.
func (c *CompletionCommand) install(t *i18n.Translations) error {
	home, err := c.homeDir()
	if err != nil {
		return fmt.Errorf("%s", t.GetMessage("completion.error_home_dir", 0, map[string]interface{}{"Error": err.Error()}))
	}

	var rcFile, shellName string
	switch shell := c.shell(); {
	case strings.Contains(shell, "zsh"):
		rcFile, shellName = filepath.Join(home, ".zshrc"), "zsh"
	case strings.Contains(shell, "bash"):
		rcFile, shellName = filepath.Join(home, ".bashrc"), "bash"
	default:
		return fmt.Errorf("%s", t.GetMessage("completion.error_unsupported_shell", 0, map[string]interface{}{"Shell": shell}))
	}

	if content, err := os.ReadFile(rcFile); err == nil && strings.Contains(string(content), installMarker) {
		ui.PrintInfo(c.out, t.GetMessage("completion.already_installed", 0, map[string]interface{}{"File": rcFile}))
		return nil
	}

	f, err := os.OpenFile(rcFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("%s", t.GetMessage("completion.error_write_config", 0, map[string]interface{}{"Error": err.Error()}))
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := fmt.Fprintf(f, installInfo, shellName); err != nil {
		return fmt.Errorf("%s", t.GetMessage("completion.error_write_config", 0, map[string]interface{}{"Error": err.Error()}))
	}

	ui.PrintSuccess(c.out, t.GetMessage("completion.installed_success", 0, map[string]interface{}{"File": rcFile}))
	_, _ = fmt.Fprintf(c.out, "  source %s\n", rcFile)
	return nil
}

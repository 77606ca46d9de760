package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a shell completion script for tally on stdout.

Bash:
  source <(tally completion bash)
  tally completion bash > ~/.local/share/bash-completion/completions/tally

Zsh:
  mkdir -p ~/.zsh/completion
  tally completion zsh > ~/.zsh/completion/_tally
  # with fpath=(~/.zsh/completion $fpath) and compinit in ~/.zshrc

Fish:
  tally completion fish > ~/.config/fish/completions/tally.fish

PowerShell:
  tally completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

var completionGenerators = map[string]func(w io.Writer) error{
	"bash":       rootCmd.GenBashCompletion,
	"zsh":        rootCmd.GenZshCompletion,
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": rootCmd.GenPowerShellCompletionWithDesc,
}

func generateCompletion(shell string) {
	gen, ok := completionGenerators[shell]
	if !ok {
		bare().Fail(fmt.Sprintf("Unsupported shell '%s'", shell), nil, "Supported shells: bash, zsh, fish, powershell")
		return
	}
	if err := gen(deps.Stdout); err != nil {
		bare().Fail(fmt.Sprintf("Failed to generate %s completion", shell), err, "")
	}
}

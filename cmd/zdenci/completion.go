package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for zdenci.

To load completions:

Bash:
  $ source <(zdenci completion bash)
  # To load permanently:
  $ zdenci completion bash > /etc/bash_completion.d/zdenci

Zsh:
  $ zdenci completion zsh > "${fpath[1]}/_zdenci"
  $ compinit

Fish:
  $ zdenci completion fish | source
  # To load permanently:
  $ zdenci completion fish > ~/.config/fish/completions/zdenci.fish

PowerShell:
  PS> zdenci completion powershell | Out-String | Invoke-Expression
  # To load permanently, add to your PowerShell profile
`,
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletion(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}

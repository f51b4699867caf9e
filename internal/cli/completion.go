package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for edgebundle.

To load completions:

Bash:
  $ source <(edgebundle completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ edgebundle completion bash > /etc/bash_completion.d/edgebundle
  # macOS:
  $ edgebundle completion bash > $(brew --prefix)/etc/bash_completion.d/edgebundle

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ edgebundle completion zsh > "${fpath[1]}/_edgebundle"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ edgebundle completion fish | source

  # To load completions for each session, execute once:
  $ edgebundle completion fish > ~/.config/fish/completions/edgebundle.fish

PowerShell:
  PS> edgebundle completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> edgebundle completion powershell > edgebundle.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(c.stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.stdout)
			}
			return nil
		},
	}
}

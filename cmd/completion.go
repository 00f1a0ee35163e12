package cmd

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/kernel/devtools-installer/pkg/extensions"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for devtools-installer.

To load completions:

Bash:
  $ source <(devtools-installer completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ devtools-installer completion bash > /etc/bash_completion.d/devtools-installer
  # macOS:
  $ devtools-installer completion bash > $(brew --prefix)/etc/bash_completion.d/devtools-installer

Zsh:
  # To load completions for each session, execute once:
  $ devtools-installer completion zsh > "${fpath[1]}/_devtools-installer"

Fish:
  $ devtools-installer completion fish | source

PowerShell:
  PS> devtools-installer completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

// completeExtensions offers the slugs of well-known extensions not already
// on the command line.
func completeExtensions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	slugs := lo.FilterMap(extensions.All(), func(k extensions.Known, _ int) (string, bool) {
		ok := strings.HasPrefix(k.Slug, strings.ToLower(toComplete)) && !lo.Contains(args, k.Slug)
		return k.Slug + "\t" + k.Name, ok
	})
	return slugs, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(completionCmd)

	installCmd.ValidArgsFunction = completeExtensions
	removeCmd.ValidArgsFunction = completeExtensions
	cacheCleanCmd.ValidArgsFunction = completeExtensions
}

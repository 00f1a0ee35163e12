package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kernel/devtools-installer/internal/config"
)

// Metadata describes the running build.
type Metadata struct {
	Version string
	Commit  string
	Date    string
}

var rootCmd = &cobra.Command{
	Use:   "devtools-installer",
	Short: "Install Chrome Web Store devtools extensions for Electron and Chromium",
	Long: `Download developer tool extensions from the Chrome Web Store, keep them
unpacked in a local cache and register them with a launch profile.

Use "devtools-installer flags" to get the command line flags that load the
installed extensions into Chromium or Electron.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			pterm.EnableDebugMessages()
		}
		return config.LoadDotEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Print verbose logs")
	rootCmd.PersistentFlags().String("home", "", "Application data directory (default: $DEVTOOLS_INSTALLER_HOME or the user config directory)")
	rootCmd.PersistentFlags().String("app-name", "", "Application name used for the default data directory")
}

// Execute runs the root command and exits non-zero on failure.
func Execute(m Metadata) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion(m.Version),
		fang.WithCommit(m.Commit),
	); err != nil {
		stop()
		os.Exit(1)
	}
}

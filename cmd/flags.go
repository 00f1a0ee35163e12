package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kernel/devtools-installer/internal/profile"
	"github.com/kernel/devtools-installer/pkg/host"
	"github.com/kernel/devtools-installer/pkg/table"
	"github.com/kernel/devtools-installer/pkg/util"
)

// LaunchProfile is the part of the launch profile the flags command reads.
type LaunchProfile interface {
	GetAllExtensions(ctx context.Context) ([]host.Extension, error)
	LaunchFlags() []string
}

// FlagsCmd prints the launch flags for installed extensions.
type FlagsCmd struct {
	profile LaunchProfile
}

// FlagsInput holds input for printing launch flags.
type FlagsInput struct {
	Output  string
	Verbose bool
}

type flagsOutput struct {
	Flags      []string         `json:"flags"`
	Extensions []host.Extension `json:"extensions"`
}

// Flags prints one flag per line so the output can be passed to a launcher.
func (c FlagsCmd) Flags(ctx context.Context, in FlagsInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	exts, err := c.profile.GetAllExtensions(ctx)
	if err != nil {
		return err
	}
	flags := c.profile.LaunchFlags()

	if in.Output == "json" {
		if flags == nil {
			flags = []string{}
		}
		if exts == nil {
			exts = []host.Extension{}
		}
		return util.PrintPrettyJSON(flagsOutput{Flags: flags, Extensions: exts})
	}

	if len(exts) == 0 {
		pterm.Info.Println("No extensions installed. Install some with 'devtools-installer install'")
		return nil
	}

	if in.Verbose {
		rows := pterm.TableData{{"Extension ID", "Name", "Version", "Path"}}
		for _, e := range exts {
			rows = append(rows, []string{e.ID, e.Name, util.OrDash(e.Version), e.Path})
		}
		table.PrintTableNoPad(rows, true)
	}
	fmt.Println(strings.Join(flags, "\n"))
	return nil
}

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Print Chromium launch flags that load the installed extensions",
	Example: `  chromium $(devtools-installer flags)
  electron . $(devtools-installer flags)`,
	Args: cobra.NoArgs,
	RunE: runFlags,
}

func init() {
	rootCmd.AddCommand(flagsCmd)

	flagsCmd.Flags().StringP("output", "o", "", "Output format: json")
	flagsCmd.Flags().BoolP("verbose", "v", false, "Also list the installed extensions")
}

func runFlags(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")

	p, err := profile.Open(e.root)
	if err != nil {
		return err
	}

	c := FlagsCmd{profile: p}
	return c.Flags(cmd.Context(), FlagsInput{Output: output, Verbose: verbose})
}

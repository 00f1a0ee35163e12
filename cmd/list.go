package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kernel/devtools-installer/internal/paths"
	"github.com/kernel/devtools-installer/pkg/extensions"
	"github.com/kernel/devtools-installer/pkg/table"
	"github.com/kernel/devtools-installer/pkg/util"
)

// ListCmd lists the well-known extensions.
type ListCmd struct {
	cacheRoot string
}

// ListInput holds input for listing extensions.
type ListInput struct {
	Output string
}

type listEntry struct {
	extensions.Known
	Cached bool `json:"cached"`
}

// List prints the well-known extensions and whether each is cached.
func (c ListCmd) List(in ListInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	known := extensions.All()
	entries := make([]listEntry, 0, len(known))
	for _, k := range known {
		entries = append(entries, listEntry{
			Known:  k,
			Cached: c.cacheRoot != "" && util.IsDir(paths.ExtensionDir(c.cacheRoot, k.ID)),
		})
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(entries)
	}

	rows := pterm.TableData{{"Name", "Slug", "Extension ID", "Electron", "Version", "Cached"}}
	for _, e := range entries {
		cached := "-"
		if e.Cached {
			cached = "yes"
		}
		rows = append(rows, []string{e.Name, e.Slug, e.ID, e.Electron, e.Version, cached})
	}
	table.PrintTableNoPad(rows, true)
	return nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List well-known devtools extensions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("output", "o", "", "Output format: json")
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	c := ListCmd{cacheRoot: e.root}
	return c.List(ListInput{Output: output})
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kernel/devtools-installer/internal/profile"
	"github.com/kernel/devtools-installer/pkg/extensions"
	"github.com/kernel/devtools-installer/pkg/host"
)

// RemoveCmd unregisters extensions from the launch profile.
type RemoveCmd struct {
	session host.Session
}

// RemoveInput holds input for removing extensions.
type RemoveInput struct {
	Extensions []string
}

// Remove unregisters each extension. The cached files are kept; use
// 'cache clean' to delete them.
func (c RemoveCmd) Remove(ctx context.Context, in RemoveInput) error {
	for _, ext := range in.Extensions {
		id := extensions.Parse(ext).ID
		if err := c.session.RemoveExtension(ctx, id); err != nil {
			if errors.Is(err, profile.ErrNotLoaded) {
				pterm.Warning.Printf("Extension %s is not installed\n", id)
				continue
			}
			return fmt.Errorf("failed to remove %s: %w", id, err)
		}
		pterm.Success.Printf("Removed extension %s\n", id)
	}
	return nil
}

var removeCmd = &cobra.Command{
	Use:   "remove <extension>...",
	Short: "Remove extensions from the launch profile",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	p, err := profile.Open(e.root)
	if err != nil {
		return err
	}

	c := RemoveCmd{session: p}
	return c.Remove(cmd.Context(), RemoveInput{Extensions: args})
}

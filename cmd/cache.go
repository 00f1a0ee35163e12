package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/kernel/devtools-installer/internal/namemap"
	"github.com/kernel/devtools-installer/internal/paths"
	"github.com/kernel/devtools-installer/internal/profile"
	"github.com/kernel/devtools-installer/pkg/extensions"
	"github.com/kernel/devtools-installer/pkg/table"
	"github.com/kernel/devtools-installer/pkg/util"
)

// CacheProfile is the part of the launch profile cache cleaning updates.
type CacheProfile interface {
	RemoveExtension(ctx context.Context, id string) error
}

// CacheCmd inspects and cleans the extension cache.
type CacheCmd struct {
	root    string
	log     logr.Logger
	profile CacheProfile
	// open reveals a directory to the user.
	open func(path string) error
}

type cacheEntry struct {
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	Version  string    `json:"version,omitempty"`
	Path     string    `json:"path"`
	Files    int       `json:"files"`
	Bytes    int64     `json:"bytes"`
	Modified time.Time `json:"modified"`
}

// CacheListInput holds input for listing cached extensions.
type CacheListInput struct {
	Output string
}

// List prints every cached extension.
func (c CacheCmd) List(in CacheListInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	entries, err := c.entries()
	if err != nil {
		return err
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(entries)
	}
	if len(entries) == 0 {
		pterm.Info.Println("No cached extensions found")
		return nil
	}

	rows := pterm.TableData{{"Extension ID", "Name", "Version", "Files", "Size", "Modified"}}
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			util.OrDash(e.Name),
			util.OrDash(e.Version),
			fmt.Sprintf("%d", e.Files),
			util.FormatBytes(e.Bytes),
			util.FormatLocal(e.Modified),
		})
	}
	table.PrintTableNoPad(rows, true)
	return nil
}

func (c CacheCmd) entries() ([]cacheEntry, error) {
	dirEntries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	var out []cacheEntry
	for _, de := range dirEntries {
		if !de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		dir := filepath.Join(c.root, de.Name())
		entry := cacheEntry{ID: de.Name(), Path: dir}

		if info, err := de.Info(); err == nil {
			entry.Modified = info.ModTime()
		}
		if m, err := profile.ReadManifest(dir); err == nil {
			entry.Name = m.DisplayName(dir)
			entry.Version = m.Version
		} else if k, ok := extensions.Lookup(de.Name()); ok {
			entry.Name = k.Name
		}

		stats, err := util.StatDirectory(dir)
		if err != nil {
			c.log.Error(err, "failed to measure cached extension", "path", dir)
		}
		if stats != nil {
			entry.Files = stats.Files
			entry.Bytes = stats.Bytes
		}
		out = append(out, entry)
	}
	return out, nil
}

// CachePathInput holds input for printing the cache location.
type CachePathInput struct {
	Open bool
}

// Path prints the cache root and optionally opens it.
func (c CacheCmd) Path(in CachePathInput) error {
	fmt.Println(c.root)
	if !in.Open {
		return nil
	}
	if err := c.open(c.root); err != nil {
		return fmt.Errorf("failed to open %s: %w", c.root, err)
	}
	return nil
}

// CacheCleanInput holds input for cleaning the cache.
type CacheCleanInput struct {
	// Extensions limits cleaning to these names or IDs. Empty cleans everything.
	Extensions []string
}

// Clean removes cached extensions, their leftover archives, their recorded
// names and their launch profile entries. Every entry is attempted; failures
// are reported together.
func (c CacheCmd) Clean(ctx context.Context, in CacheCleanInput) error {
	var ids []string
	if len(in.Extensions) == 0 {
		dirEntries, err := os.ReadDir(c.root)
		if err != nil {
			return fmt.Errorf("failed to read cache: %w", err)
		}
		for _, de := range dirEntries {
			name := de.Name()
			switch {
			case strings.HasPrefix(name, "."):
			case de.IsDir():
				ids = append(ids, name)
			case strings.HasSuffix(name, paths.ArchiveSuffix):
				ids = append(ids, strings.TrimSuffix(name, paths.ArchiveSuffix))
			}
		}
	} else {
		for _, ext := range in.Extensions {
			ids = append(ids, extensions.Parse(ext).ID)
		}
	}

	ids = lo.Uniq(ids)
	names := namemap.Load(paths.NameMapPath(c.root), c.log)

	var result *multierror.Error
	removed := 0
	for _, id := range ids {
		if id == "" || strings.ContainsAny(id, `/\`) || id == ".." {
			result = multierror.Append(result, fmt.Errorf("invalid extension ID %q", id))
			continue
		}
		dir := paths.ExtensionDir(c.root, id)
		existed := util.Exists(dir)
		if err := util.RemoveIfExists(dir); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to remove %s: %w", dir, err))
			continue
		}
		if err := util.RemoveIfExists(paths.ArchivePath(c.root, id)); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to remove archive for %s: %w", id, err))
			continue
		}
		names.Delete(id)
		if err := c.profile.RemoveExtension(ctx, id); err != nil && !errors.Is(err, profile.ErrNotLoaded) {
			result = multierror.Append(result, fmt.Errorf("failed to unregister %s: %w", id, err))
		}
		if existed {
			removed++
		}
	}

	if err := names.Flush(); err != nil {
		result = multierror.Append(result, err)
	}

	pterm.Success.Printf("Removed %d cached extension(s)\n", removed)
	return result.ErrorOrNil()
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clean the extension cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached extensions",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE:  runCachePath,
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean [extension]...",
	Short: "Remove cached extensions",
	Long:  "Remove the given cached extensions, or the whole cache when none are given. Removed extensions are also unregistered from the launch profile.",
	RunE:  runCacheClean,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheCleanCmd)

	cacheListCmd.Flags().StringP("output", "o", "", "Output format: json")
	cachePathCmd.Flags().Bool("open", false, "Open the directory in the file manager")
}

func newCacheCmd(cmd *cobra.Command) (CacheCmd, error) {
	e, err := loadEnv(cmd)
	if err != nil {
		return CacheCmd{}, err
	}
	p, err := profile.Open(e.root)
	if err != nil {
		return CacheCmd{}, err
	}
	return CacheCmd{root: e.root, log: e.log, profile: p, open: browser.OpenFile}, nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	c, err := newCacheCmd(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return c.List(CacheListInput{Output: output})
}

func runCachePath(cmd *cobra.Command, args []string) error {
	c, err := newCacheCmd(cmd)
	if err != nil {
		return err
	}
	open, _ := cmd.Flags().GetBool("open")
	return c.Path(CachePathInput{Open: open})
}

func runCacheClean(cmd *cobra.Command, args []string) error {
	c, err := newCacheCmd(cmd)
	if err != nil {
		return err
	}
	return c.Clean(cmd.Context(), CacheCleanInput{Extensions: args})
}

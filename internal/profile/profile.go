// Package profile is a host that prepares a Chromium launch profile.
//
// Extensions loaded into a Profile are recorded in profile.json and turned
// into the command line flags that make Chromium or Electron load them
// unpacked on the next launch.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/kernel/devtools-installer/internal/paths"
	"github.com/kernel/devtools-installer/pkg/host"
)

// ErrNotLoaded is returned when removing an extension that is not in the profile.
var ErrNotLoaded = errors.New("extension is not loaded")

type state struct {
	Extensions []host.Extension `json:"extensions"`
}

// Profile implements host.Session on top of a state file.
type Profile struct {
	mu    sync.Mutex
	path  string
	state state
}

// Open reads the profile kept in root. A missing state file is an empty
// profile.
func Open(root string) (*Profile, error) {
	p := &Profile{path: paths.ProfilePath(root)}

	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if err := json.Unmarshal(data, &p.state); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", p.path, err)
	}
	return p, nil
}

// Path returns the state file location.
func (p *Profile) Path() string {
	return p.path
}

// LoadExtension records the unpacked extension at dir, replacing any entry
// with the same id. The id is the directory name, which is the store id for
// directories created by the installer.
func (p *Profile) LoadExtension(_ context.Context, dir string, _ host.LoadOptions) (host.Extension, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return host.Extension{}, fmt.Errorf("failed to resolve extension path: %w", err)
	}

	m, err := ReadManifest(abs)
	if err != nil {
		return host.Extension{}, err
	}

	ext := host.Extension{
		ID:      filepath.Base(abs),
		Name:    m.DisplayName(abs),
		Path:    abs,
		Version: m.Version,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Extensions = lo.Reject(p.state.Extensions, func(e host.Extension, _ int) bool {
		return e.ID == ext.ID
	})
	p.state.Extensions = append(p.state.Extensions, ext)
	sort.Slice(p.state.Extensions, func(i, j int) bool {
		return p.state.Extensions[i].ID < p.state.Extensions[j].ID
	})

	if err := p.save(); err != nil {
		return host.Extension{}, err
	}
	return ext, nil
}

// GetAllExtensions returns the recorded extensions ordered by id.
func (p *Profile) GetAllExtensions(_ context.Context) ([]host.Extension, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]host.Extension, len(p.state.Extensions))
	copy(out, p.state.Extensions)
	return out, nil
}

// RemoveExtension drops the extension with the given id.
func (p *Profile) RemoveExtension(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, idx, found := lo.FindIndexOf(p.state.Extensions, func(e host.Extension) bool {
		return e.ID == id
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrNotLoaded, id)
	}
	p.state.Extensions = append(p.state.Extensions[:idx], p.state.Extensions[idx+1:]...)
	return p.save()
}

// LaunchFlags returns the flags that load every recorded extension and
// disable all others. It returns nil for an empty profile.
func (p *Profile) LaunchFlags() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.state.Extensions) == 0 {
		return nil
	}
	dirs := strings.Join(lo.Map(p.state.Extensions, func(e host.Extension, _ int) string {
		return e.Path
	}), ",")
	return []string{
		"--load-extension=" + dirs,
		"--disable-extensions-except=" + dirs,
	}
}

func (p *Profile) save() error {
	data, err := json.MarshalIndent(p.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Package host adapts the extension APIs of an embedding application.
//
// Two generations of host are supported. A Session host loads unpacked
// extensions through a browser session and identifies them by id. A
// DevToolsHost registers devtools extensions and identifies them by the
// name it assigns. Select picks the adapter for a host once, so callers
// never branch on the host generation.
package host

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/samber/lo"
)

// Extension is an extension loaded into a host.
type Extension struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
}

// LoadOptions are passed through to the host when loading an extension.
type LoadOptions map[string]any

// Session is a host with a session-level extension API.
type Session interface {
	LoadExtension(ctx context.Context, path string, opts LoadOptions) (Extension, error)
	GetAllExtensions(ctx context.Context) ([]Extension, error)
	RemoveExtension(ctx context.Context, id string) error
}

// DevToolsHost is a host with the older devtools extension API.
type DevToolsHost interface {
	AddDevToolsExtension(path string) (string, error)
	GetDevToolsExtensions() map[string]string
	RemoveDevToolsExtension(name string) error
}

// Kind names the host generation an adapter talks to.
type Kind string

const (
	KindSession  Kind = "session"
	KindDevTools Kind = "devtools"
)

// ErrUnsupportedHost is returned by Select for hosts with neither API.
var ErrUnsupportedHost = errors.New("host does not support loading extensions")

// Adapter is the uniform view of a host.
type Adapter interface {
	Kind() Kind
	Load(ctx context.Context, path string, opts LoadOptions) (Extension, error)
	List(ctx context.Context) ([]Extension, error)
	Remove(ctx context.Context, ext Extension) error
	// Find reports the loaded extension unpacked at dir or registered under
	// recordedName. recordedName may be empty.
	Find(ctx context.Context, dir, recordedName string) (Extension, bool, error)
	// PersistsNames reports whether names returned by Load must be recorded
	// by the caller to find the extension again later.
	PersistsNames() bool
}

// Select returns the adapter for h, preferring the session API.
func Select(h any) (Adapter, error) {
	switch v := h.(type) {
	case nil:
		return nil, ErrUnsupportedHost
	case Session:
		return &sessionAdapter{session: v}, nil
	case DevToolsHost:
		return &devToolsAdapter{host: v}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedHost, h)
	}
}

type sessionAdapter struct {
	session Session
}

func (a *sessionAdapter) Kind() Kind { return KindSession }

func (a *sessionAdapter) PersistsNames() bool { return false }

func (a *sessionAdapter) Load(ctx context.Context, path string, opts LoadOptions) (Extension, error) {
	ext, err := a.session.LoadExtension(ctx, path, opts)
	if err != nil {
		return Extension{}, fmt.Errorf("failed to load extension from %s: %w", path, err)
	}
	return ext, nil
}

func (a *sessionAdapter) List(ctx context.Context) ([]Extension, error) {
	exts, err := a.session.GetAllExtensions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list extensions: %w", err)
	}
	return exts, nil
}

func (a *sessionAdapter) Remove(ctx context.Context, ext Extension) error {
	if err := a.session.RemoveExtension(ctx, ext.ID); err != nil {
		return fmt.Errorf("failed to remove extension %s: %w", ext.ID, err)
	}
	return nil
}

func (a *sessionAdapter) Find(ctx context.Context, dir, recordedName string) (Extension, bool, error) {
	exts, err := a.List(ctx)
	if err != nil {
		return Extension{}, false, err
	}
	ext, ok := lo.Find(exts, func(e Extension) bool {
		if dir != "" && e.Path != "" && samePath(e.Path, dir) {
			return true
		}
		return recordedName != "" && e.Name == recordedName
	})
	return ext, ok, nil
}

type devToolsAdapter struct {
	host DevToolsHost
}

func (a *devToolsAdapter) Kind() Kind { return KindDevTools }

func (a *devToolsAdapter) PersistsNames() bool { return true }

func (a *devToolsAdapter) Load(_ context.Context, path string, _ LoadOptions) (Extension, error) {
	name, err := a.host.AddDevToolsExtension(path)
	if err != nil {
		return Extension{}, fmt.Errorf("failed to add devtools extension from %s: %w", path, err)
	}
	return Extension{ID: name, Name: name, Path: path}, nil
}

func (a *devToolsAdapter) List(_ context.Context) ([]Extension, error) {
	registered := a.host.GetDevToolsExtensions()
	exts := lo.MapToSlice(registered, func(name, path string) Extension {
		return Extension{ID: name, Name: name, Path: path}
	})
	sort.Slice(exts, func(i, j int) bool { return exts[i].Name < exts[j].Name })
	return exts, nil
}

func (a *devToolsAdapter) Remove(_ context.Context, ext Extension) error {
	if err := a.host.RemoveDevToolsExtension(ext.Name); err != nil {
		return fmt.Errorf("failed to remove devtools extension %s: %w", ext.Name, err)
	}
	return nil
}

// Find only knows names; the devtools API does not report where an extension
// was loaded from reliably.
func (a *devToolsAdapter) Find(_ context.Context, _, recordedName string) (Extension, bool, error) {
	if recordedName == "" {
		return Extension{}, false, nil
	}
	path, ok := a.host.GetDevToolsExtensions()[recordedName]
	if !ok {
		return Extension{}, false, nil
	}
	return Extension{ID: recordedName, Name: recordedName, Path: path}, true, nil
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

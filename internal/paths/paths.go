// Package paths resolves where the installer keeps unpacked extensions and
// its bookkeeping files.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// HomeEnvVar overrides the application data directory. When no value is
	// set, the XDG config home or the OS user config directory is used.
	HomeEnvVar = "DEVTOOLS_INSTALLER_HOME"

	// xdgConfigHomeEnvVar is the XDG base directory variable for config files.
	xdgConfigHomeEnvVar = "XDG_CONFIG_HOME"

	// DefaultAppName is the directory name used under the user config directory.
	DefaultAppName = "devtools-installer"

	// ExtensionsDir is the cache root's name inside the application data directory.
	ExtensionsDir = "extensions"

	// NameMapFile holds the identifier to display-name mapping.
	NameMapFile = "IDMap.json"

	// ProfileFile holds the extensions loaded into the launch profile.
	ProfileFile = "profile.json"

	// ConfigFile is the optional YAML configuration inside the application data directory.
	ConfigFile = "devtools-installer.yaml"

	// ArchiveSuffix is appended to an identifier for the transient downloaded archive.
	ArchiveSuffix = ".crx"

	locksDir = ".locks"
)

// AppDataDir returns the per-user application data directory for appName.
//
// The lookup order is:
//  1. DEVTOOLS_INSTALLER_HOME, used as-is
//  2. $XDG_CONFIG_HOME/<appName>
//  3. os.UserConfigDir()/<appName>, which is where Electron keeps userData
func AppDataDir(appName string) (string, error) {
	if appName == "" {
		appName = DefaultAppName
	}

	if base := os.Getenv(HomeEnvVar); base != "" {
		return filepath.Abs(base)
	}
	if base := os.Getenv(xdgConfigHomeEnvVar); base != "" {
		return filepath.Abs(filepath.Join(base, appName))
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// CacheRoot returns the absolute extensions directory inside appDataDir,
// creating it if needed.
func CacheRoot(appDataDir string) (string, error) {
	root, err := filepath.Abs(filepath.Join(appDataDir, ExtensionsDir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache root: %w", err)
	}
	if err := EnsureDir(root); err != nil {
		return "", err
	}
	return root, nil
}

// EnsureDir creates dir and its parents. An existing directory is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// ExtensionDir is where the extension with the given identifier is unpacked.
func ExtensionDir(root, id string) string {
	return filepath.Join(root, id)
}

// ArchivePath is the transient download location for id.
func ArchivePath(root, id string) string {
	return filepath.Join(root, id) + ArchiveSuffix
}

// NameMapPath returns the IDMap.json location.
func NameMapPath(root string) string {
	return filepath.Join(root, NameMapFile)
}

// ProfilePath returns the launch profile state location.
func ProfilePath(root string) string {
	return filepath.Join(root, ProfileFile)
}

// LockPath returns the lock file guarding installs of id.
func LockPath(root, id string) string {
	return filepath.Join(root, locksDir, id+".lock")
}

// Package config loads installer settings from an optional YAML file and
// DEVTOOLS_INSTALLER_* environment variables. Environment variables win over
// the file; command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kernel/devtools-installer/internal/acquire"
	"github.com/kernel/devtools-installer/internal/paths"
)

const envPrefix = "DEVTOOLS_INSTALLER_"

// Config holds every tunable of the installer.
type Config struct {
	AppName     string        `yaml:"app_name"`
	Home        string        `yaml:"-"`
	Attempts    int           `yaml:"attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	Timeout     time.Duration `yaml:"timeout"`
	ProdVersion string        `yaml:"prod_version"`
	UpdateURL   string        `yaml:"update_url"`
	Proxy       string        `yaml:"proxy"`
	Lock        bool          `yaml:"lock"`
	HostVersion string        `yaml:"host_version"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		AppName:     paths.DefaultAppName,
		Attempts:    acquire.DefaultAttempts,
		RetryDelay:  acquire.DefaultRetryDelay,
		ProdVersion: acquire.DefaultProdVersion,
		UpdateURL:   acquire.DefaultUpdateURL,
	}
}

// LoadDotEnv loads .env from the working directory into the process
// environment. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadWith(os.Getenv)
}

// LoadWith reads the configuration using getenv to look up variables.
func LoadWith(getenv func(string) string) (*Config, error) {
	cfg := Default()

	// Home and the app name decide where the config file lives, so they are
	// only read from the environment.
	if v := getenv(envPrefix + "APP_NAME"); v != "" {
		cfg.AppName = v
	}
	cfg.Home = getenv(paths.HomeEnvVar)

	dir, err := cfg.AppDataDir()
	if err != nil {
		return nil, err
	}
	if err := cfg.readFile(filepath.Join(dir, paths.ConfigFile)); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AppDataDir returns the application data directory.
func (c *Config) AppDataDir() (string, error) {
	if c.Home != "" {
		return filepath.Abs(c.Home)
	}
	return paths.AppDataDir(c.AppName)
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	lookup := func(key string) (string, bool) {
		v := strings.TrimSpace(getenv(envPrefix + key))
		return v, v != ""
	}

	if v, ok := lookup("ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sATTEMPTS: %w", envPrefix, err)
		}
		c.Attempts = n
	}
	if v, ok := lookup("RETRY_DELAY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sRETRY_DELAY: %w", envPrefix, err)
		}
		c.RetryDelay = d
	}
	if v, ok := lookup("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup("LOCK"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sLOCK: %w", envPrefix, err)
		}
		c.Lock = b
	}
	if v, ok := lookup("PROD_VERSION"); ok {
		c.ProdVersion = v
	}
	if v, ok := lookup("UPDATE_URL"); ok {
		c.UpdateURL = v
	}
	if v, ok := lookup("PROXY"); ok {
		c.Proxy = v
	}
	if v, ok := lookup("HOST_VERSION"); ok {
		c.HostVersion = v
	}
	return nil
}

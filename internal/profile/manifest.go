package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	manifestFile  = "manifest.json"
	localesDir    = "_locales"
	messagesFile  = "messages.json"
	defaultLocale = "en"
)

// Manifest holds the manifest.json fields the profile needs.
type Manifest struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	DefaultLocale string `json:"default_locale"`
}

// ReadManifest parses dir/manifest.json.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest in %s: %w", dir, err)
	}
	return &m, nil
}

// DisplayName resolves a __MSG_key__ name from the extension's messages.
// Unresolvable names are returned as written.
func (m *Manifest) DisplayName(dir string) string {
	key, ok := messageKey(m.Name)
	if !ok {
		return m.Name
	}

	locale := m.DefaultLocale
	if locale == "" {
		locale = defaultLocale
	}
	data, err := os.ReadFile(filepath.Join(dir, localesDir, locale, messagesFile))
	if err != nil {
		return m.Name
	}

	var messages map[string]struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &messages); err != nil {
		return m.Name
	}

	// Message keys are case-insensitive.
	for k, v := range messages {
		if strings.EqualFold(k, key) && v.Message != "" {
			return v.Message
		}
	}
	return m.Name
}

func messageKey(name string) (string, bool) {
	if !strings.HasPrefix(name, "__MSG_") || !strings.HasSuffix(name, "__") || len(name) <= len("__MSG_")+len("__") {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, "__MSG_"), "__"), true
}

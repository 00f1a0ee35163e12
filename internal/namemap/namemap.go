// Package namemap persists the display names hosts assign to extensions,
// keyed by store identifier.
package namemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-logr/logr"
)

// Map is an identifier to name mapping backed by a JSON file. It is safe for
// concurrent use within a process.
type Map struct {
	mu    sync.Mutex
	path  string
	names map[string]string
	log   logr.Logger
}

// Load reads the map stored at path. A missing file yields an empty map, and
// so does a corrupt one after logging the problem; Load never fails.
func Load(path string, log logr.Logger) *Map {
	m := &Map{
		path:  path,
		names: map[string]string{},
		log:   log,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Error(err, "failed to read the IDMap file", "path", path)
		}
		return m
	}

	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		log.Error(err, "Invalid JSON present in the IDMap file", "path", path)
		return m
	}
	if names != nil {
		m.names = names
	}
	return m
}

// Path returns the backing file.
func (m *Map) Path() string {
	return m.path
}

// Get returns the name recorded for id.
func (m *Map) Get(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.names[id]
	return name, ok
}

// Set records name for id. Call Flush to persist it.
func (m *Map) Set(id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[id] = name
}

// Delete forgets id. Call Flush to persist it.
func (m *Map) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.names, id)
}

// IDs returns the recorded identifiers in sorted order.
func (m *Map) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.names))
	for id := range m.names {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns a copy of the mapping.
func (m *Map) All() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.names))
	for id, name := range m.names {
		out[id] = name
	}
	return out
}

// Flush rewrites the backing file with the whole mapping.
func (m *Map) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(m.names)
	if err != nil {
		return fmt.Errorf("failed to serialize IDMap: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create IDMap directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write IDMap: %w", err)
	}
	return nil
}

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RHgrive/Study-Plus/internal/domain"
)

// PreferencesCache is the fast-path copy of the preferences, written
// synchronously on every change so an abrupt exit right after a change still
// keeps it.
type PreferencesCache interface {
	// Load returns the cached values as a patch over the defaults.
	// A missing cache is (nil, nil).
	Load() (*domain.PreferencesPatch, error)
	Save(prefs domain.Preferences) error
}

// FileCache stores preferences as a small JSON file.
type FileCache struct {
	path string
}

// NewFileCache creates a cache backed by the file at path.
// The file and its directory are created on first Save.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Path returns the cache file location.
func (c *FileCache) Path() string {
	return c.path
}

// Load reads the cache file. Fields missing from the file stay nil in the patch.
func (c *FileCache) Load() (*domain.PreferencesPatch, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences cache: %w", err)
	}

	var patch domain.PreferencesPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return nil, fmt.Errorf("parse preferences cache: %w", err)
	}
	return &patch, nil
}

// Save replaces the cache file atomically.
func (c *FileCache) Save(prefs domain.Preferences) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write preferences cache: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync preferences cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename preferences cache: %w", err)
	}

	success = true
	return nil
}

// NopCache is a PreferencesCache that remembers nothing.
type NopCache struct{}

func (NopCache) Load() (*domain.PreferencesPatch, error) { return nil, nil }
func (NopCache) Save(domain.Preferences) error           { return nil }

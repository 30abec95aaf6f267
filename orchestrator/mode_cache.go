package orchestrator

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"fluxwell/models"
)

// ModeCache remembers the last known AI mode so a session can show it before the
// server answers. The server value always overwrites it.
type ModeCache interface {
	Load() (models.AIMode, bool)
	Store(mode models.AIMode) error
}

// MemoryModeCache keeps the mode for the lifetime of the process.
type MemoryModeCache struct {
	mu   sync.Mutex
	mode models.AIMode
	set  bool
}

// NewMemoryModeCache creates an empty MemoryModeCache.
func NewMemoryModeCache() *MemoryModeCache {
	return &MemoryModeCache{}
}

func (c *MemoryModeCache) Load() (models.AIMode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, c.set
}

func (c *MemoryModeCache) Store(mode models.AIMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.set = true
	return nil
}

// FileModeCache keeps the mode of each user in a JSON file.
type FileModeCache struct {
	mu     sync.Mutex
	path   string
	userID string
}

type modeCacheFile struct {
	Modes map[string]models.AIMode `json:"modes"`
}

// NewFileModeCache creates a FileModeCache for userID backed by path.
func NewFileModeCache(path, userID string) *FileModeCache {
	return &FileModeCache{path: path, userID: userID}
}

// DefaultModeCachePath returns the cache file under the user's cache directory.
func DefaultModeCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, "fluxwell", "ai_mode.json"), nil
}

// Load returns the cached mode. A missing or unreadable file is a cache miss.
func (c *FileModeCache) Load() (models.AIMode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := c.read()
	if err != nil {
		log.Printf("WARN: [ModeCache] Ignoring unreadable cache file %s: %v", c.path, err)
		return "", false
	}
	mode, ok := data.Modes[c.userID]
	if !ok || !mode.Valid() {
		return "", false
	}
	return mode, true
}

func (c *FileModeCache) Store(mode models.AIMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := c.read()
	if err != nil {
		data = modeCacheFile{}
	}
	if data.Modes == nil {
		data.Modes = map[string]models.AIMode{}
	}
	data.Modes[c.userID] = mode

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mode cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create mode cache dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write mode cache file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace mode cache file: %w", err)
	}
	return nil
}

func (c *FileModeCache) read() (modeCacheFile, error) {
	var data modeCacheFile
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return data, fmt.Errorf("read mode cache file: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("unmarshal mode cache: %w", err)
	}
	return data, nil
}

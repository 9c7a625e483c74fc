// Package storage provides the durable key-value store backing verisite's
// persisted settings.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/tkarls/verisite/internal/logging"
)

// Settings abstracts durable key-value state.
// Implementations: SQLite (production) or in-memory (tests, storage-less environments).
type Settings interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteSettings persists settings in a single-table SQLite database.
type SQLiteSettings struct {
	db *sql.DB
}

// Open opens (creating if necessary) the settings database at path.
func Open(path string, logLevel logging.LogLevel) (*SQLiteSettings, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize settings schema: %w", err)
	}

	if logLevel <= logging.LogLevelDebug {
		log.Printf("Opened settings database at %s", path)
	}

	return &SQLiteSettings{db: db}, nil
}

// Get returns the value for key and whether the key exists.
func (s *SQLiteSettings) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *SQLiteSettings) Put(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write setting %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLiteSettings) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteSettings) Close() error {
	return s.db.Close()
}

// MemorySettings is a map-backed Settings implementation.
type MemorySettings struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySettings creates an empty in-memory settings store.
func NewMemorySettings() *MemorySettings {
	return &MemorySettings{values: map[string]string{}}
}

// Get returns the value for key and whether the key exists.
func (m *MemorySettings) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Put stores value under key.
func (m *MemorySettings) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes key.
func (m *MemorySettings) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemorySettings) Close() error {
	return nil
}

// DefaultPath returns the platform-specific path of the settings database
func DefaultPath() (string, error) {
	switch runtime.GOOS {
	case "linux":
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to determine home directory: %w", err)
			}
			base = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(base, "verisite", "settings.db"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "verisite", "settings.db"), nil
	case "windows":
		appData := os.Getenv("AppData")
		if appData == "" {
			return "", fmt.Errorf("AppData environment variable not set")
		}
		return filepath.Join(appData, "verisite", "settings.db"), nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

package storage

import (
	"path/filepath"
	"testing"

	"github.com/tkarls/verisite/internal/logging"
)

func openTestSettings(t *testing.T, path string) *SQLiteSettings {
	t.Helper()
	settings, err := Open(path, logging.LogLevelError)
	if err != nil {
		t.Fatalf("Failed to open settings database: %v", err)
	}
	t.Cleanup(func() { _ = settings.Close() })
	return settings
}

func TestSQLiteSettings_PutGet(t *testing.T) {
	settings := openTestSettings(t, filepath.Join(t.TempDir(), "settings.db"))

	if err := settings.Put("selectedLocationId", "42"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, ok, err := settings.Get("selectedLocationId")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected key to exist")
	}
	if value != "42" {
		t.Errorf("Expected value %q, got %q", "42", value)
	}
}

func TestSQLiteSettings_GetMissingKey(t *testing.T) {
	settings := openTestSettings(t, filepath.Join(t.TempDir(), "settings.db"))

	value, ok, err := settings.Get("nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Expected missing key to report ok=false")
	}
	if value != "" {
		t.Errorf("Expected empty value for missing key, got %q", value)
	}
}

func TestSQLiteSettings_PutOverwrites(t *testing.T) {
	settings := openTestSettings(t, filepath.Join(t.TempDir(), "settings.db"))

	if err := settings.Put("key", "first"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := settings.Put("key", "second"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, ok, err := settings.Get("key")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != "second" {
		t.Errorf("Expected overwritten value %q, got %q", "second", value)
	}
}

func TestSQLiteSettings_Delete(t *testing.T) {
	settings := openTestSettings(t, filepath.Join(t.TempDir(), "settings.db"))

	if err := settings.Put("key", "value"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := settings.Delete("key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, ok, err := settings.Get("key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Expected key to be gone after Delete")
	}

	// Deleting an absent key is not an error
	if err := settings.Delete("key"); err != nil {
		t.Errorf("Deleting absent key should not error, got: %v", err)
	}
}

func TestSQLiteSettings_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	settings, err := Open(path, logging.LogLevelError)
	if err != nil {
		t.Fatalf("Failed to open settings database: %v", err)
	}
	if err := settings.Put("selectedLocationId", "7"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := settings.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := openTestSettings(t, path)
	value, ok, err := reopened.Get("selectedLocationId")
	if err != nil || !ok {
		t.Fatalf("Get after reopen failed: ok=%v err=%v", ok, err)
	}
	if value != "7" {
		t.Errorf("Expected persisted value %q, got %q", "7", value)
	}
}

func TestSQLiteSettings_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dirs", "settings.db")
	settings := openTestSettings(t, path)

	if err := settings.Put("key", "value"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
}

func TestMemorySettings(t *testing.T) {
	settings := NewMemorySettings()

	if err := settings.Put("key", "value"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, ok, err := settings.Get("key")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != "value" {
		t.Errorf("Expected %q, got %q", "value", value)
	}

	if err := settings.Delete("key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, ok, _ = settings.Get("key")
	if ok {
		t.Error("Expected key to be gone after Delete")
	}

	if err := settings.Close(); err != nil {
		t.Errorf("Close should be a no-op, got: %v", err)
	}
}

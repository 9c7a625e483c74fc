// Package sites holds the location list and the active site selection shared
// across the application.
package sites

import (
	"log"
	"strconv"

	"github.com/tkarls/verisite/internal/logging"
	"github.com/tkarls/verisite/internal/storage"
)

// SelectedLocationKey is the settings key under which the active selection is persisted.
const SelectedLocationKey = "selectedLocationId"

// Location represents a selectable site
type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store is the single source of truth for location data and the active
// selection. The selection is persisted through the injected Settings; a nil
// Settings degrades to in-memory-only state.
//
// All mutations are expected to happen on the UI goroutine; the store applies
// no locking of its own. The loading and error fields are integration points
// for a stricter fetch path and are not set by the selector.
type Store struct {
	settings storage.Settings
	logLevel logging.LogLevel

	locations  []Location
	selectedID *int64
	isLoading  bool
	err        *string
}

// NewStore creates a Store, restoring the persisted selection if one exists.
// A stored value that does not parse as an integer normalizes to no selection.
func NewStore(settings storage.Settings, logLevel logging.LogLevel) *Store {
	s := &Store{
		settings: settings,
		logLevel: logLevel,
	}

	if settings == nil {
		return s
	}

	value, ok, err := settings.Get(SelectedLocationKey)
	if err != nil {
		if logLevel <= logging.LogLevelWarning {
			log.Printf("Failed to restore persisted selection: %v", err)
		}
		return s
	}
	if !ok {
		return s
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		if logLevel <= logging.LogLevelDebug {
			log.Printf("Ignoring non-numeric persisted selection %q", value)
		}
		return s
	}

	s.selectedID = &id
	return s
}

// Locations returns the current location list.
func (s *Store) Locations() []Location {
	out := make([]Location, len(s.locations))
	copy(out, s.locations)
	return out
}

// SelectedID returns the active selection, or nil when no site is selected.
func (s *Store) SelectedID() *int64 {
	if s.selectedID == nil {
		return nil
	}
	id := *s.selectedID
	return &id
}

// IsLoading reports the loading flag.
func (s *Store) IsLoading() bool {
	return s.isLoading
}

// Err returns the stored error message, or nil.
func (s *Store) Err() *string {
	if s.err == nil {
		return nil
	}
	msg := *s.err
	return &msg
}

// SetLocations replaces the full location list. The current selection is not
// validated against the new list; a selection referencing a no-longer-present
// id is left in place.
func (s *Store) SetLocations(locations []Location) {
	s.locations = make([]Location, len(locations))
	copy(s.locations, locations)
}

// SetSelectedID sets the active selection and persists it. A nil id clears the
// selection and removes the persisted key. Persistence failures are
// best-effort: the in-memory state updates regardless.
func (s *Store) SetSelectedID(id *int64) {
	if id == nil {
		s.selectedID = nil
	} else {
		v := *id
		s.selectedID = &v
	}

	if s.settings == nil {
		return
	}

	var err error
	if id == nil {
		err = s.settings.Delete(SelectedLocationKey)
	} else {
		err = s.settings.Put(SelectedLocationKey, strconv.FormatInt(*id, 10))
	}
	if err != nil && s.logLevel <= logging.LogLevelWarning {
		log.Printf("Failed to persist selection: %v", err)
	}
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.isLoading = loading
}

// SetError sets the stored error message. Pass nil to clear it.
func (s *Store) SetError(msg *string) {
	if msg == nil {
		s.err = nil
		return
	}
	m := *msg
	s.err = &m
}

// Reset clears locations, selection, loading flag and error, and removes the
// persisted selection key.
func (s *Store) Reset() {
	s.locations = nil
	s.selectedID = nil
	s.isLoading = false
	s.err = nil

	if s.settings == nil {
		return
	}
	if err := s.settings.Delete(SelectedLocationKey); err != nil && s.logLevel <= logging.LogLevelWarning {
		log.Printf("Failed to remove persisted selection: %v", err)
	}
}

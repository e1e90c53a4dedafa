// Package storage owns the on-disk settings document: one JSON file per
// user, crash-safe saves, and the target-list invariants.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"quickcall/internal/models"
)

// ErrCorrupt marks a settings file that exists but cannot be parsed. It is
// distinct from an absent file so callers can choose between falling back
// to defaults (with a user-visible warning) and surfacing the failure.
var ErrCorrupt = errors.New("settings file is corrupt")

// ErrTargetNotFound is returned by mutations addressing an unknown target.
var ErrTargetNotFound = errors.New("target not found")

// Store is the sole owner of the in-memory Settings document and its file.
// Reads run concurrently; mutations and saves are serialized by the lock.
type Store struct {
	mu       sync.RWMutex
	path     string
	settings models.Settings
}

// Open loads the settings document at path. A missing file yields the
// default document without writing it; the file appears on the first
// explicit Save. Repeated opens before any save therefore always produce
// the same defaults.
func Open(path string) (*Store, error) {
	s := &Store{path: path, settings: models.DefaultSettings()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("no settings file, using defaults", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	var loaded models.Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCorrupt, path, err)
	}
	s.settings = loaded
	return s, nil
}

// OpenDefault opens the store at the per-user settings path.
func OpenDefault() (*Store, error) {
	return Open(DefaultSettingsPath())
}

// NewWithDefaults returns a store bound to path with a fresh default
// document, ignoring any existing file. Used after a corrupt-file fallback.
func NewWithDefaults(path string) *Store {
	return &Store{path: path, settings: models.DefaultSettings()}
}

// Path returns the canonical settings file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the document atomically: marshal, write a temp file in the
// same directory, rename over the destination. A crash mid-save leaves the
// canonical path holding either the old or the new content, never a
// truncated mix. On failure the in-memory state is untouched so the caller
// can retry.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp settings file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace settings file: %w", err)
	}

	slog.Debug("settings saved", "path", s.path, "targets", len(s.settings.Targets))
	return nil
}

// Settings returns a deep copy of the current document.
func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// Replace swaps the whole in-memory document, e.g. after the settings UI
// submits an edited copy. It does not persist.
func (s *Store) Replace(settings models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Clone()
	s.normalizePrimaryLocked()
}

// Target resolves a target by ID.
func (s *Store) Target(id string) (models.Target, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.settings.Targets {
		if t.ID == id {
			return t, true
		}
	}
	return models.Target{}, false
}

// PrimaryTarget returns the target marked primary, if any.
func (s *Store) PrimaryTarget() (models.Target, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.settings.Targets {
		if t.IsPrimary {
			return t, true
		}
	}
	return models.Target{}, false
}

// Targets returns a copy of the target list in stored order.
func (s *Store) Targets() []models.Target {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Target, len(s.settings.Targets))
	copy(out, s.settings.Targets)
	return out
}

// Keybinds returns the current hotkey bindings.
func (s *Store) Keybinds() models.Keybinds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone().Keybinds
}

// AddTarget appends a target, promoting it to primary when it is the first
// one. In-memory only; persistence is an explicit Save so UI edits can be
// batched and a crash between edit and save never corrupts the stored file.
func (s *Store) AddTarget(t models.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.settings.Targets) == 0 {
		t.IsPrimary = true
	} else if t.IsPrimary {
		s.clearPrimaryLocked()
	}
	s.settings.Targets = append(s.settings.Targets, t)
}

// RemoveTarget deletes a target by ID. When the removed target was primary
// and others remain, the first remaining target (list order) is promoted so
// the join-primary hotkey keeps working.
func (s *Store) RemoveTarget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.settings.Targets {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrTargetNotFound
	}

	s.settings.Targets = append(s.settings.Targets[:idx], s.settings.Targets[idx+1:]...)
	s.normalizePrimaryLocked()
	return nil
}

// UpdateTarget replaces the stored target with the same ID. The primary
// invariant is re-enforced: marking a target primary demotes the previous
// one, and un-marking the only primary falls back to the first target.
func (s *Store) UpdateTarget(t models.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, existing := range s.settings.Targets {
		if existing.ID == t.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrTargetNotFound
	}

	if t.IsPrimary && !s.settings.Targets[idx].IsPrimary {
		s.clearPrimaryLocked()
	}
	s.settings.Targets[idx] = t
	s.normalizePrimaryLocked()
	return nil
}

// SetPrimary marks the given target primary, demoting any other.
func (s *Store) SetPrimary(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.settings.Targets {
		if s.settings.Targets[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return ErrTargetNotFound
	}

	for i := range s.settings.Targets {
		s.settings.Targets[i].IsPrimary = s.settings.Targets[i].ID == id
	}
	return nil
}

// clearPrimaryLocked demotes every target. Callers re-promote exactly one.
func (s *Store) clearPrimaryLocked() {
	for i := range s.settings.Targets {
		s.settings.Targets[i].IsPrimary = false
	}
}

// normalizePrimaryLocked restores the invariant that a non-empty list has
// exactly one primary target.
func (s *Store) normalizePrimaryLocked() {
	if len(s.settings.Targets) == 0 {
		return
	}
	primaries := 0
	for _, t := range s.settings.Targets {
		if t.IsPrimary {
			primaries++
		}
	}
	switch {
	case primaries == 1:
		return
	case primaries == 0:
		s.settings.Targets[0].IsPrimary = true
	default:
		keep := true
		for i := range s.settings.Targets {
			if s.settings.Targets[i].IsPrimary {
				s.settings.Targets[i].IsPrimary = keep
				keep = false
			}
		}
	}
}

// UpdateAppSettings replaces the preference block. In-memory only.
func (s *Store) UpdateAppSettings(app models.AppSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.AppSettings = app
}

// UpdateKeybinds replaces the hotkey bindings. In-memory only.
func (s *Store) UpdateKeybinds(kb models.Keybinds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Keybinds = kb
}

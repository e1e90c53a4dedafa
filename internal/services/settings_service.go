package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"quickcall/internal/events"
	"quickcall/internal/hotkeys"
	"quickcall/internal/models"
	"quickcall/internal/pairing"
	"quickcall/internal/storage"
)

type SettingsService interface {
	Startup(ctx context.Context)
	Get() (models.Settings, error)
	Save(settings models.Settings) error
	CreateTarget(label string, targetType models.TargetType) (models.Target, error)
	ImportTarget(label, code string, targetType models.TargetType) (models.Target, error)
	RemoveTarget(id string) error
	UpdateTarget(target models.Target) error
	SetPrimary(id string) error
	ListTargets() ([]models.Target, error)
	ListCodeBackups() ([]BackupEntry, error)
	RecoverTarget(backup BackupEntry) (models.Target, error)
	PreviewRoom(code string) string
}

type settingsService struct {
	store   *storage.Store
	vault   *KeyringService
	hotkeys *hotkeys.Service
	context context.Context
}

func NewSettingsService(store *storage.Store, vault *KeyringService, hk *hotkeys.Service) SettingsService {
	return &settingsService{store: store, vault: vault, hotkeys: hk}
}

func (s *settingsService) Startup(ctx context.Context) {
	s.context = ctx
}

func (s *settingsService) Get() (models.Settings, error) {
	return s.store.Settings(), nil
}

// Save replaces the whole document with the UI's edited copy and persists
// it. When the keybinds changed, the hotkey registrations are rebuilt from
// the new bindings (settings should still save even if re-registration
// fails).
func (s *settingsService) Save(settings models.Settings) error {
	oldKeybinds := s.store.Keybinds()

	s.store.Replace(settings)
	if err := s.store.Save(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	newKeybinds := s.store.Keybinds()
	if !keybindsEqual(oldKeybinds, newKeybinds) {
		slog.Info("keybinds changed, re-registering hotkeys")
		if err := s.hotkeys.Apply(newKeybinds); err != nil {
			slog.Error("failed to apply new hotkeys", "err", err)
			s.emit(events.SettingsWarning, events.NewWarn("some hotkeys could not be registered"))
		}
	}

	s.emit(events.SettingsChanged, events.NewSuccess("settings saved"))
	return nil
}

// CreateTarget mints a fresh pairing code for a target this installation
// owns. The code is shared out-of-band with the peer installations.
func (s *settingsService) CreateTarget(label string, targetType models.TargetType) (models.Target, error) {
	if label == "" {
		return models.Target{}, errors.New("label is required")
	}

	code, err := pairing.GenerateCode()
	if err != nil {
		// Entropy failure blocks target creation but nothing else.
		return models.Target{}, fmt.Errorf("generate pairing code: %w", err)
	}

	return s.addTarget(label, code, targetType)
}

// ImportTarget stores a code received out-of-band (link, QR, clipboard).
// Only format and length are checked; the code is otherwise an opaque blob
// to be hashed later. Hand-typed free-form strings are rejected by the
// format check.
func (s *settingsService) ImportTarget(label, code string, targetType models.TargetType) (models.Target, error) {
	if label == "" {
		return models.Target{}, errors.New("label is required")
	}
	if !pairing.ValidCodeFormat(code) {
		return models.Target{}, errors.New("invalid pairing code format")
	}

	return s.addTarget(label, code, targetType)
}

func (s *settingsService) addTarget(label, code string, targetType models.TargetType) (models.Target, error) {
	if targetType != models.TargetGroup {
		targetType = models.TargetPerson
	}

	target := models.Target{
		ID:           uuid.NewString(),
		Label:        label,
		Code:         code,
		Type:         targetType,
		CallDefaults: models.DefaultCallDefaults(),
		CreatedAt:    time.Now().UTC(),
	}

	s.store.AddTarget(target)
	if err := s.store.Save(); err != nil {
		// The in-memory target survives; the user can retry the save.
		return models.Target{}, fmt.Errorf("persist new target: %w", err)
	}

	if err := s.vault.BackupCode(target.ID, target.Label, target.Code); err != nil {
		slog.Warn("pairing code backup failed", "target", target.Label, "err", err)
	}

	// AddTarget may have promoted it to primary; return the stored value.
	stored, _ := s.store.Target(target.ID)
	return stored, nil
}

// RemoveTarget deletes a target, its code backup and any per-target
// hotkey, then persists.
func (s *settingsService) RemoveTarget(id string) error {
	if err := s.store.RemoveTarget(id); err != nil {
		return err
	}

	kb := s.store.Keybinds()
	if _, ok := kb.TargetHotkeys[id]; ok {
		delete(kb.TargetHotkeys, id)
		s.store.UpdateKeybinds(kb)
		if err := s.hotkeys.Apply(kb); err != nil {
			slog.Error("failed to re-apply hotkeys", "err", err)
		}
	}

	if err := s.store.Save(); err != nil {
		return fmt.Errorf("persist target removal: %w", err)
	}

	if err := s.vault.ForgetCode(id); err != nil {
		slog.Warn("failed to drop code backup", "target", id, "err", err)
	}
	return nil
}

func (s *settingsService) UpdateTarget(target models.Target) error {
	if err := s.store.UpdateTarget(target); err != nil {
		return err
	}
	return s.store.Save()
}

func (s *settingsService) SetPrimary(id string) error {
	if err := s.store.SetPrimary(id); err != nil {
		return err
	}
	return s.store.Save()
}

func (s *settingsService) ListTargets() ([]models.Target, error) {
	return s.store.Targets(), nil
}

// ListCodeBackups exposes the keyring recovery entries to the settings UI.
func (s *settingsService) ListCodeBackups() ([]BackupEntry, error) {
	return s.vault.ListBackups()
}

// RecoverTarget re-creates a target from its keyring backup after the
// settings file was lost or corrupt.
func (s *settingsService) RecoverTarget(backup BackupEntry) (models.Target, error) {
	code, err := s.vault.RecallCode(backup.TargetID)
	if err != nil {
		return models.Target{}, fmt.Errorf("recall code backup: %w", err)
	}

	label := backup.Label
	if label == "" {
		label = "Recovered target"
	}
	return s.addTarget(label, code, models.TargetPerson)
}

// PreviewRoom shows which room a code would land in, e.g. when reviewing
// an invite before accepting it.
func (s *settingsService) PreviewRoom(code string) string {
	return pairing.RoomID(code)
}

func (s *settingsService) emit(name string, evt events.AppEvent) {
	if s.context != nil {
		events.Emit(s.context, name, evt)
	}
}

func keybindsEqual(a, b models.Keybinds) bool {
	if a.JoinPrimary != b.JoinPrimary || a.Hangup != b.Hangup ||
		a.ToggleMute != b.ToggleMute || a.ToggleVideo != b.ToggleVideo {
		return false
	}
	if len(a.TargetHotkeys) != len(b.TargetHotkeys) {
		return false
	}
	for k, v := range a.TargetHotkeys {
		if b.TargetHotkeys[k] != v {
			return false
		}
	}
	return true
}

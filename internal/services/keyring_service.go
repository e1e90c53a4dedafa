package services

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zalando/go-keyring"
)

const keyringServiceName = "quickcall"

func GetOS() string {
	return runtime.GOOS
}

// KeyringService mirrors pairing codes into the OS keyring. The settings
// file stays the source of truth; the keyring copy exists so codes survive
// a corrupt or deleted settings file and can be offered back to the user
// during recovery.
type KeyringService struct {
}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

// BackupEntry identifies a recoverable pairing code.
type BackupEntry struct {
	TargetID string `json:"target_id"`
	Label    string `json:"label"`
}

// BackupCode stores a target's pairing code under its ID.
func (s *KeyringService) BackupCode(targetID, label, code string) error {
	if targetID == "" {
		return errors.New("target id is required")
	}
	if code == "" {
		return errors.New("code is empty")
	}

	if err := keyring.Set(keyringServiceName, targetID, code); err != nil {
		return err
	}

	return s.addEntry(BackupEntry{TargetID: targetID, Label: label})
}

// RecallCode fetches the backed-up pairing code for a target.
func (s *KeyringService) RecallCode(targetID string) (string, error) {
	if targetID == "" {
		return "", errors.New("target id is required")
	}
	return keyring.Get(keyringServiceName, targetID)
}

// ForgetCode removes a target's backup when the target is deleted.
func (s *KeyringService) ForgetCode(targetID string) error {
	if targetID == "" {
		return errors.New("target id is required")
	}

	err := keyring.Delete(keyringServiceName, targetID)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}

	return s.removeEntry(targetID)
}

// ListBackups returns the entries whose codes are still present in the
// keyring. Used by the recovery flow after a corrupt settings file.
func (s *KeyringService) ListBackups() ([]BackupEntry, error) {
	entries, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	var results []BackupEntry
	for _, e := range entries {
		if _, err := keyring.Get(keyringServiceName, e.TargetID); err != nil {
			continue
		}
		results = append(results, e)
	}
	return results, nil
}

// The keyring has no list operation, so an index file in the config dir
// remembers which entries exist. It holds IDs and labels only, never codes.
func (s *KeyringService) indexPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	appDir := filepath.Join(configDir, "quickcall")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, "code-backups.json"), nil
}

func (s *KeyringService) loadIndex() ([]BackupEntry, error) {
	path, err := s.indexPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []BackupEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []BackupEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *KeyringService) saveIndex(entries []BackupEntry) error {
	path, err := s.indexPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (s *KeyringService) addEntry(entry BackupEntry) error {
	entries, err := s.loadIndex()
	if err != nil {
		return err
	}

	for i, e := range entries {
		if e.TargetID == entry.TargetID {
			entries[i] = entry
			return s.saveIndex(entries)
		}
	}

	entries = append(entries, entry)
	return s.saveIndex(entries)
}

func (s *KeyringService) removeEntry(targetID string) error {
	entries, err := s.loadIndex()
	if err != nil {
		return err
	}

	var kept []BackupEntry
	for _, e := range entries {
		if e.TargetID != targetID {
			kept = append(kept, e)
		}
	}

	return s.saveIndex(kept)
}

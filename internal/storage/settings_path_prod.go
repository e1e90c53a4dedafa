//go:build prod

package storage

import (
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultSettingsPath returns the settings location for production mode.
// The document lives in the user's config directory.
func DefaultSettingsPath() string {
	if override := os.Getenv("QUICKCALL_SETTINGS_PATH"); override != "" {
		return override
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		slog.Warn("failed to get user config dir, using working directory", "err", err)
		return "settings.json"
	}
	return filepath.Join(configDir, "quickcall", "settings.json")
}

func IsDevelopment() bool {
	return false
}

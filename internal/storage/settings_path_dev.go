//go:build !prod

package storage

import "os"

// DefaultSettingsPath returns the settings location for development mode.
// In dev the document sits in the project root for easy inspection.
func DefaultSettingsPath() string {
	if override := os.Getenv("QUICKCALL_SETTINGS_PATH"); override != "" {
		return override
	}
	return "settings.json"
}

func IsDevelopment() bool {
	return true
}

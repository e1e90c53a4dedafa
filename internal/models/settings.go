package models

import (
	"encoding/json"
	"runtime"
	"time"
)

// SchemaVersion is the current on-disk settings schema version.
const SchemaVersion = 1

// Settings is the root persisted document. One JSON file per user owns
// everything: preferences, hotkey bindings and the target list.
type Settings struct {
	Version     int         `json:"version"`
	AppSettings AppSettings `json:"app_settings"`
	Keybinds    Keybinds    `json:"keybinds"`
	Targets     []Target    `json:"targets"`
}

// AppSettings holds app-wide preferences. The backend only stores and
// forwards these; the UI interprets them.
type AppSettings struct {
	Autostart         bool   `json:"autostart"`
	AlwaysOnTop       bool   `json:"always_on_top"`
	PlayJoinSound     bool   `json:"play_join_sound"`
	ShowNotifications bool   `json:"show_notifications"`
	Theme             string `json:"theme"` // "light" | "dark" | "system"
}

// Keybinds holds hotkey bindings as accelerator strings. The backend never
// parses these; they are handed verbatim to the hotkey registrar.
type Keybinds struct {
	JoinPrimary   string            `json:"join_primary"`
	Hangup        string            `json:"hangup"`
	TargetHotkeys map[string]string `json:"target_hotkeys,omitempty"`
	ToggleMute    string            `json:"toggle_mute,omitempty"`
	ToggleVideo   string            `json:"toggle_video,omitempty"`
}

// Target is a saved call destination (one person or one group sharing a
// pairing code).
type Target struct {
	ID           string       `json:"id"`
	Label        string       `json:"label"`
	Code         string       `json:"code"`
	Type         TargetType   `json:"type"`
	IsPrimary    bool         `json:"is_primary"`
	CallDefaults CallDefaults `json:"call_defaults"`
	CreatedAt    time.Time    `json:"created_at"`
	Notes        string       `json:"notes,omitempty"`
}

type TargetType string

const (
	TargetPerson TargetType = "person"
	TargetGroup  TargetType = "group"
)

// CallDefaults is applied when the conference embed opens a room for the
// target.
type CallDefaults struct {
	StartWithAudio bool   `json:"start_with_audio"`
	StartWithVideo bool   `json:"start_with_video"`
	DisplayName    string `json:"display_name,omitempty"`
}

// DefaultSettings returns the document written on a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Version:     SchemaVersion,
		AppSettings: DefaultAppSettings(),
		Keybinds:    DefaultKeybinds(),
		Targets:     []Target{},
	}
}

func DefaultAppSettings() AppSettings {
	return AppSettings{
		Autostart:         false,
		AlwaysOnTop:       true,
		PlayJoinSound:     true,
		ShowNotifications: true,
		Theme:             "system",
	}
}

// DefaultKeybinds returns platform-appropriate bindings. macOS users expect
// the Command key; everywhere else Ctrl+Shift avoids common conflicts.
func DefaultKeybinds() Keybinds {
	if runtime.GOOS == "darwin" {
		return Keybinds{
			JoinPrimary: "Cmd+Shift+J",
			Hangup:      "Cmd+Shift+H",
		}
	}
	return Keybinds{
		JoinPrimary: "Ctrl+Shift+J",
		Hangup:      "Ctrl+Shift+H",
	}
}

func DefaultCallDefaults() CallDefaults {
	return CallDefaults{
		StartWithAudio: true,
		StartWithVideo: true,
	}
}

// UnmarshalJSON presets defaults before decoding so documents written by an
// older schema keep sensible values for fields they never mention.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type alias Settings
	tmp := alias(DefaultSettings())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*s = Settings(tmp)
	if s.Targets == nil {
		s.Targets = []Target{}
	}
	return nil
}

func (a *AppSettings) UnmarshalJSON(data []byte) error {
	type alias AppSettings
	tmp := alias(DefaultAppSettings())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*a = AppSettings(tmp)
	return nil
}

func (k *Keybinds) UnmarshalJSON(data []byte) error {
	type alias Keybinds
	tmp := alias(DefaultKeybinds())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*k = Keybinds(tmp)
	return nil
}

func (t *Target) UnmarshalJSON(data []byte) error {
	type alias Target
	tmp := alias{Type: TargetPerson, CallDefaults: DefaultCallDefaults()}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*t = Target(tmp)
	return nil
}

func (c *CallDefaults) UnmarshalJSON(data []byte) error {
	type alias CallDefaults
	tmp := alias(DefaultCallDefaults())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*c = CallDefaults(tmp)
	return nil
}

// Clone returns a deep copy so callers can hand settings across goroutine
// boundaries without sharing the targets slice or hotkey map.
func (s Settings) Clone() Settings {
	out := s
	out.Targets = make([]Target, len(s.Targets))
	copy(out.Targets, s.Targets)
	if s.Keybinds.TargetHotkeys != nil {
		out.Keybinds.TargetHotkeys = make(map[string]string, len(s.Keybinds.TargetHotkeys))
		for k, v := range s.Keybinds.TargetHotkeys {
			out.Keybinds.TargetHotkeys[k] = v
		}
	}
	return out
}

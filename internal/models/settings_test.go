package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, SchemaVersion, s.Version)
	assert.Empty(t, s.Targets)
	assert.False(t, s.AppSettings.Autostart)
	assert.True(t, s.AppSettings.AlwaysOnTop)
	assert.Equal(t, "system", s.AppSettings.Theme)
	assert.NotEmpty(t, s.Keybinds.JoinPrimary)
	assert.NotEmpty(t, s.Keybinds.Hangup)
}

func TestSettings_RoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.AppSettings.Theme = "dark"
	s.Keybinds.TargetHotkeys = map[string]string{"t1": "Ctrl+Shift+1"}
	s.Targets = append(s.Targets, Target{
		ID:        "t1",
		Label:     "Alex",
		Code:      "abcd-efgh-ijkl-mnop-qrst",
		Type:      TargetPerson,
		IsPrimary: true,
		CallDefaults: CallDefaults{
			StartWithAudio: true,
			StartWithVideo: false,
			DisplayName:    "Me",
		},
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Notes:     "laptop pair",
	})

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var parsed Settings
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, s, parsed)
}

func TestSettings_MissingFieldsGetDefaults(t *testing.T) {
	// A document written by an older build that predates several fields.
	old := `{
		"version": 1,
		"app_settings": {"autostart": true, "always_on_top": false},
		"keybinds": {"join_primary": "Ctrl+Alt+J"},
		"targets": [
			{"id": "t1", "label": "Alex", "code": "abc", "type": "person", "call_defaults": {"start_with_video": false}}
		]
	}`

	var s Settings
	require.NoError(t, json.Unmarshal([]byte(old), &s))

	// Present fields are honored.
	assert.True(t, s.AppSettings.Autostart)
	assert.False(t, s.AppSettings.AlwaysOnTop)
	assert.Equal(t, "Ctrl+Alt+J", s.Keybinds.JoinPrimary)

	// Absent fields pick up defaults instead of zero values.
	assert.True(t, s.AppSettings.PlayJoinSound)
	assert.True(t, s.AppSettings.ShowNotifications)
	assert.Equal(t, "system", s.AppSettings.Theme)
	assert.NotEmpty(t, s.Keybinds.Hangup)

	require.Len(t, s.Targets, 1)
	assert.True(t, s.Targets[0].CallDefaults.StartWithAudio, "missing start_with_audio defaults to true")
	assert.False(t, s.Targets[0].CallDefaults.StartWithVideo, "explicit false is kept")
}

func TestSettings_EmptyDocumentGetsFullDefaults(t *testing.T) {
	var s Settings
	require.NoError(t, json.Unmarshal([]byte(`{}`), &s))
	assert.Equal(t, DefaultSettings(), s)
}

func TestSettings_Clone(t *testing.T) {
	s := DefaultSettings()
	s.Keybinds.TargetHotkeys = map[string]string{"t1": "Ctrl+Shift+1"}
	s.Targets = append(s.Targets, Target{ID: "t1", Label: "Alex"})

	c := s.Clone()
	c.Targets[0].Label = "Changed"
	c.Keybinds.TargetHotkeys["t1"] = "Other"

	assert.Equal(t, "Alex", s.Targets[0].Label)
	assert.Equal(t, "Ctrl+Shift+1", s.Keybinds.TargetHotkeys["t1"])
}

func TestSettings_UnicodeLabels(t *testing.T) {
	s := DefaultSettings()
	s.Targets = append(s.Targets, Target{ID: "t1", Label: "张三 & friends 🎉"})

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var parsed Settings
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, s.Targets[0].Label, parsed.Targets[0].Label)
}

package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// Event names the frontend subscribes to.
const (
	CallStateChanged = "call:state"
	CallParticipant  = "call:participant"
	CallNotice       = "call:notice"
	ConferenceOpen   = "conference:open"
	ConferenceClose  = "conference:close"
	SettingsChanged  = "settings:changed"
	SettingsWarning  = "settings:warning"
	HotkeyTriggered  = "hotkey:triggered"
)

// AppEvent is the generic notice payload shown as toasts and log lines.
// Structured payloads (call snapshots, conference configs) are emitted as
// their own types under the names above.
type AppEvent struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func newEvent(eventType EventType, message string) AppEvent {
	return AppEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info AppEvent.
func NewInfo(message string) AppEvent {
	return newEvent(EventInfo, message)
}

// NewWarn creates a warn AppEvent.
func NewWarn(message string) AppEvent {
	return newEvent(EventWarn, message)
}

// NewError creates an error AppEvent.
func NewError(message string) AppEvent {
	return newEvent(EventError, message)
}

// NewSuccess creates a success AppEvent.
func NewSuccess(message string) AppEvent {
	return newEvent(EventSuccess, message)
}

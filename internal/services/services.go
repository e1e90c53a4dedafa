package services

import (
	"quickcall/internal/conference"
	"quickcall/internal/hotkeys"
	"quickcall/internal/storage"
)

// Services aggregates the backend services the app binds to the frontend.
type Services struct {
	Settings SettingsService
	Call     CallService
	Hotkeys  *hotkeys.Service
	Window   *conference.Window
	Keyring  *KeyringService
}

// NewServices wires the full backend graph around one settings store: the
// conference window is the controller's bridge, the hotkey service drives
// the same controller the UI uses, and the settings service re-applies
// hotkeys when bindings change.
func NewServices(store *storage.Store) *Services {
	window := conference.NewWindow()
	vault := NewKeyringService()

	callSvc := NewCallService(window, store)
	hotkeySvc := hotkeys.NewService(nil, callSvc)
	settingsSvc := NewSettingsService(store, vault, hotkeySvc)

	return &Services{
		Settings: settingsSvc,
		Call:     callSvc,
		Hotkeys:  hotkeySvc,
		Window:   window,
		Keyring:  vault,
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"quickcall/internal/events"
	"quickcall/internal/models"
	"quickcall/internal/pairing"
	"quickcall/internal/services"
	"quickcall/internal/storage"
)

// App struct
type App struct {
	ctx             context.Context
	store           *storage.Store
	services        *services.Services
	settingsCorrupt bool
}

// NewApp creates a new App application struct
func NewApp(store *storage.Store, svc *services.Services, settingsCorrupt bool) *App {
	return &App{
		store:           store,
		services:        svc,
		settingsCorrupt: settingsCorrupt,
	}
}

// startup is called when the app starts. The context is saved so we can
// call the runtime methods, and every service gets wired to it.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	events.EnableRuntimeEmitter()

	a.services.Window.Startup(ctx)
	a.services.Hotkeys.Startup(ctx)
	a.services.Call.Startup(ctx)
	a.services.Settings.Startup(ctx)

	if err := a.services.Hotkeys.Apply(a.store.Keybinds()); err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to register hotkeys: %v", err))
	}

	if a.settingsCorrupt {
		// Surfaced once the frontend can render it; recovery offers the
		// keyring code backups.
		events.Emit(ctx, events.SettingsWarning,
			events.NewWarn("settings file was unreadable; starting with defaults"))
	}

	runtime.LogInfo(ctx, "quickcall started")
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	a.services.Call.Hangup()

	if err := a.services.Hotkeys.Apply(models.Keybinds{}); err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to unregister hotkeys: %v", err))
	}
}

// Platform returns the OS name for the settings UI.
func (a *App) Platform() string {
	return services.GetOS()
}

// DefaultKeybinds returns the platform defaults so the settings UI can
// offer a reset.
func (a *App) DefaultKeybinds() models.Keybinds {
	return models.DefaultKeybinds()
}

// SettingsPath returns the canonical settings file location for display in
// the settings screen.
func (a *App) SettingsPath() string {
	return a.store.Path()
}

// RoomForCode previews the room a pairing code derives to.
func (a *App) RoomForCode(code string) string {
	return pairing.RoomID(code)
}

package main

import (
	"embed"
	"errors"
	"log/slog"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"

	"quickcall/internal/logging"
	"quickcall/internal/services"
	"quickcall/internal/storage"
	"quickcall/internal/utils"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	logging.Setup()

	if storage.IsDevelopment() {
		if err := utils.LoadEnv(); err != nil {
			slog.Debug("no .env loaded", "err", err)
		}
	}

	// A corrupt settings file falls back to defaults with a visible
	// warning; it never prevents the app from starting. The broken file
	// stays on disk until the next save replaces it.
	settingsCorrupt := false
	store, err := storage.OpenDefault()
	if err != nil {
		if !errors.Is(err, storage.ErrCorrupt) {
			slog.Error("cannot read settings", "err", err)
			return
		}
		slog.Warn("settings file corrupt, starting with defaults", "path", storage.DefaultSettingsPath())
		settingsCorrupt = true
		store = storage.NewWithDefaults(storage.DefaultSettingsPath())
	}

	svc := services.NewServices(store)
	app := NewApp(store, svc, settingsCorrupt)

	err = wails.Run(&options.App{
		Title:  "QuickCall",
		Width:  420,
		Height: 640,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "QuickCall",
		},
		BackgroundColour: &options.RGBA{R: 24, G: 24, B: 30, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
			svc.Settings,
			svc.Call,
			svc.Keyring,
		},
	})
	if err != nil {
		slog.Error("wails run failed", "err", err)
	}
}

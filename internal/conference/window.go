// Package conference bridges the call controller to the conferencing embed
// hosted in the frontend webview. The Go side only tells the embed which
// room to open or close; audio and video never touch this process.
package conference

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"quickcall/internal/call"
	"quickcall/internal/events"
)

// OpenPayload is what the frontend receives on a conference:open event. The
// embed builds its iframe URL from Room and applies the display options.
type OpenPayload struct {
	Room    string           `json:"room"`
	Options call.OpenOptions `json:"options"`
}

// Window implements call.Bridge over Wails events. The frontend hosts the
// actual conference iframe and reports lifecycle back through the bound
// call service. Both commands only emit an event and return, keeping the
// hotkey path non-blocking.
type Window struct {
	mu   sync.Mutex
	ctx  context.Context
	open bool
}

func NewWindow() *Window {
	return &Window{}
}

// Startup captures the Wails context. Until it is called, commands fail
// with a bridge error that the controller maps to a clean Idle recovery.
func (w *Window) Startup(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = ctx
}

func (w *Window) OpenRoom(room string, opts call.OpenOptions) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return errors.New("conference window not initialized")
	}

	slog.Debug("opening conference", "room", room)
	events.Emit(w.ctx, events.ConferenceOpen, OpenPayload{Room: room, Options: opts})
	w.open = true
	return nil
}

func (w *Window) CloseRoom() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return errors.New("conference window not initialized")
	}

	slog.Debug("closing conference")
	events.Emit(w.ctx, events.ConferenceClose, nil)
	w.open = false
	return nil
}

// IsOpen reports whether an open instruction is outstanding.
func (w *Window) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Package hotkeys dispatches resolved global-hotkey activations onto the
// call controller. OS-level registration lives outside the core; this
// package only maps accelerator strings to actions and debounces key
// repeats.
package hotkeys

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"quickcall/internal/call"
	"quickcall/internal/events"
	"quickcall/internal/models"
)

// debounceWindow collapses rapid repeated presses of the same hotkey into
// one effective action: the first press fires, the rest are dropped until
// the window passes.
const debounceWindow = 1500 * time.Millisecond

// CallActions is what a hotkey can do. Satisfied by call.Controller.
type CallActions interface {
	Join(targetID string) error
	JoinPrimary() error
	Hangup()
}

// Registrar is the contract to the OS global-shortcut collaborator. It
// hands back already-resolved activations; the core never parses
// accelerator strings.
type Registrar interface {
	Register(accelerator string, handler func()) error
	UnregisterAll() error
}

// NoopRegistrar is used when no OS registrar is wired (tests, platforms
// without global-shortcut support). Hotkeys can still be triggered from
// the frontend through the bound trigger methods.
type NoopRegistrar struct{}

func (NoopRegistrar) Register(string, func()) error { return nil }
func (NoopRegistrar) UnregisterAll() error          { return nil }

// Service owns the binding table and the per-action debounce limiters.
type Service struct {
	mu        sync.Mutex
	ctx       context.Context
	registrar Registrar
	actions   CallActions
	limiters  map[string]*rate.Limiter
}

func NewService(registrar Registrar, actions CallActions) *Service {
	if registrar == nil {
		registrar = NoopRegistrar{}
	}
	return &Service{
		registrar: registrar,
		actions:   actions,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (s *Service) Startup(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx
}

// Apply replaces all registered hotkeys with the given bindings. Called at
// startup and again whenever saved keybinds change.
func (s *Service) Apply(kb models.Keybinds) error {
	if err := s.registrar.UnregisterAll(); err != nil {
		slog.Error("failed to unregister hotkeys", "err", err)
	}

	var errs []error
	if kb.JoinPrimary != "" {
		if err := s.registrar.Register(kb.JoinPrimary, s.TriggerJoinPrimary); err != nil {
			errs = append(errs, err)
		}
	}
	if kb.Hangup != "" {
		if err := s.registrar.Register(kb.Hangup, s.TriggerHangup); err != nil {
			errs = append(errs, err)
		}
	}
	for targetID, accel := range kb.TargetHotkeys {
		if accel == "" {
			continue
		}
		id := targetID
		if err := s.registrar.Register(accel, func() { s.TriggerJoin(id) }); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TriggerJoinPrimary is the "join" hotkey entry point.
func (s *Service) TriggerJoinPrimary() {
	s.trigger("join-primary", func() {
		s.report(s.actions.JoinPrimary())
	})
}

// TriggerJoin is the per-target hotkey entry point.
func (s *Service) TriggerJoin(targetID string) {
	s.trigger("join:"+targetID, func() {
		s.report(s.actions.Join(targetID))
	})
}

// TriggerHangup is the "hangup" hotkey entry point.
func (s *Service) TriggerHangup() {
	s.trigger("hangup", func() {
		s.actions.Hangup()
	})
}

// trigger runs fn unless an identical action already fired inside the
// debounce window. Must stay fast: it runs on the hotkey dispatch path.
func (s *Service) trigger(name string, fn func()) {
	if !s.allow(name) {
		slog.Debug("hotkey debounced", "action", name)
		return
	}

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx != nil {
		events.Emit(ctx, events.HotkeyTriggered, events.NewInfo(name))
	}

	fn()
}

func (s *Service) allow(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lim, ok := s.limiters[name]
	if !ok {
		lim = rate.NewLimiter(rate.Every(debounceWindow), 1)
		s.limiters[name] = lim
	}
	return lim.Allow()
}

// report surfaces expected rejections as transient notices and real
// failures as errors. Busy is routine, not an error condition.
func (s *Service) report(err error) {
	if err == nil {
		return
	}

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		return
	}

	switch {
	case call.IsBusy(err):
		events.Emit(ctx, events.CallNotice, events.NewWarn(err.Error()))
	case errors.Is(err, call.ErrNoPrimaryTarget), errors.Is(err, call.ErrUnknownTarget):
		events.Emit(ctx, events.CallNotice, events.NewWarn("no target configured"))
	default:
		events.Emit(ctx, events.CallNotice, events.NewError(err.Error()))
	}
}

package services

import (
	"context"
	"sync"

	"quickcall/internal/call"
	"quickcall/internal/events"
	"quickcall/internal/storage"
)

// CallService is the bound facade over the call controller. The frontend
// calls Join/Hangup from UI buttons and reports embed lifecycle through the
// Conference* methods; the hotkey service drives the same controller.
type CallService interface {
	Startup(ctx context.Context)
	Join(targetID string) error
	JoinPrimary() error
	Hangup()
	Snapshot() call.Snapshot
	StateName() string
	ConferenceJoined()
	ConferenceLeft()
	ConferenceError(reason string)
	ParticipantJoined(name string)
}

type callService struct {
	mu         sync.Mutex
	context    context.Context
	controller *call.Controller
	store      *storage.Store
}

// NewCallService wires a controller to the given bridge and store. The
// controller's state changes are published as call:state events once a
// Wails context is available.
func NewCallService(bridge call.Bridge, store *storage.Store) CallService {
	s := &callService{store: store}
	s.controller = call.NewController(bridge, store, s.publishState)
	return s
}

func (s *callService) Startup(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = ctx
}

func (s *callService) ctx() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

func (s *callService) Join(targetID string) error {
	return s.controller.Join(targetID)
}

func (s *callService) JoinPrimary() error {
	return s.controller.JoinPrimary()
}

func (s *callService) Hangup() {
	s.controller.Hangup()
}

func (s *callService) Snapshot() call.Snapshot {
	return s.controller.Snapshot()
}

func (s *callService) StateName() string {
	return s.controller.State().String()
}

// ConferenceJoined is invoked by the frontend when the embed reports the
// conference was joined.
func (s *callService) ConferenceJoined() {
	s.controller.HandleJoined()
}

// ConferenceLeft is invoked when the conference ended or the embed window
// closed.
func (s *callService) ConferenceLeft() {
	s.controller.HandleLeft()
}

// ConferenceError is invoked when the embed failed to connect or died
// unexpectedly. The controller recovers to Idle; the user sees a retryable
// error, the process keeps running.
func (s *callService) ConferenceError(reason string) {
	s.controller.HandleError(reason)
	if ctx := s.ctx(); ctx != nil {
		events.Emit(ctx, events.CallNotice, events.NewError("call failed: "+reason))
	}
}

// ParticipantJoined triggers a discreet local notification. Optional: not
// required for call correctness.
func (s *callService) ParticipantJoined(name string) {
	ctx := s.ctx()
	if ctx == nil {
		return
	}
	if !s.store.Settings().AppSettings.ShowNotifications {
		return
	}
	if name == "" {
		name = "Someone"
	}
	events.Emit(ctx, events.CallParticipant, events.NewInfo(name+" joined the call"))
}

func (s *callService) publishState(snap call.Snapshot) {
	if ctx := s.ctx(); ctx != nil {
		events.Emit(ctx, events.CallStateChanged, snap)
	}
}

// The store doubles as the controller's read-only target resolver.
var _ call.TargetResolver = (*storage.Store)(nil)

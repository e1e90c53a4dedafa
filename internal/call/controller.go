package call

import (
	"fmt"
	"log/slog"
	"sync"

	"quickcall/internal/models"
	"quickcall/internal/pairing"
)

// OpenOptions carries the resolved target's call defaults to the embed.
type OpenOptions struct {
	DisplayName    string `json:"display_name"`
	StartWithAudio bool   `json:"start_with_audio"`
	StartWithVideo bool   `json:"start_with_video"`
	AlwaysOnTop    bool   `json:"always_on_top"`
}

// Bridge is the contract to the external conferencing embed. Both methods
// only issue instructions and must return without waiting for the embed;
// confirmation arrives later through HandleJoined / HandleLeft.
type Bridge interface {
	OpenRoom(room string, opts OpenOptions) error
	CloseRoom() error
}

// TargetResolver is the read-only slice of the settings store the
// controller needs. The controller never mutates settings.
type TargetResolver interface {
	Target(id string) (models.Target, bool)
	PrimaryTarget() (models.Target, bool)
	Settings() models.Settings
}

// Snapshot is what observers receive on every state change.
type Snapshot struct {
	State    State  `json:"state"`
	TargetID string `json:"target_id,omitempty"`
	Room     string `json:"room,omitempty"`
}

// Controller serializes every join/hangup request and embed callback
// through one mutex, so hotkey handlers, UI actions and embed events can
// fire from any goroutine without ever observing a half-applied
// transition.
type Controller struct {
	mu       sync.Mutex
	state    State
	targetID string
	room     string

	bridge   Bridge
	resolver TargetResolver
	notify   func(Snapshot)
}

// NewController builds an idle controller. notify may be nil; when set it
// is invoked after each completed transition, outside the lock.
func NewController(bridge Bridge, resolver TargetResolver, notify func(Snapshot)) *Controller {
	return &Controller{
		state:    Idle,
		bridge:   bridge,
		resolver: resolver,
		notify:   notify,
	}
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentTarget returns the target being joined or in-call with, or empty
// when idle.
func (c *Controller) CurrentTarget() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetID
}

// Snapshot returns the current state and target atomically.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{State: c.state, TargetID: c.targetID, Room: c.room}
}

// Join starts a call to the given target. Succeeds only from Idle; any
// other state rejects with BusyError (never queued, never auto-switched).
// The open instruction is issued inside the same critical section that
// records Connecting, so a near-simultaneous second Join reliably observes
// Connecting: two joins can never both see Idle.
func (c *Controller) Join(targetID string) error {
	c.mu.Lock()

	if c.state != Idle {
		st := c.state
		c.mu.Unlock()
		slog.Debug("join rejected", "state", st, "target", targetID)
		return &BusyError{State: st}
	}

	target, ok := c.resolver.Target(targetID)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownTarget, targetID)
	}

	room := pairing.RoomID(target.Code)
	opts := OpenOptions{
		DisplayName:    target.CallDefaults.DisplayName,
		StartWithAudio: target.CallDefaults.StartWithAudio,
		StartWithVideo: target.CallDefaults.StartWithVideo,
		AlwaysOnTop:    c.resolver.Settings().AppSettings.AlwaysOnTop,
	}

	c.state = Connecting
	c.targetID = target.ID
	c.room = room

	// Issued before the lock is released: the state change and the open
	// instruction are atomic as far as any other caller can tell.
	if err := c.bridge.OpenRoom(room, opts); err != nil {
		c.state = Idle
		c.targetID = ""
		c.room = ""
		c.mu.Unlock()
		slog.Error("open room failed", "room", room, "err", err)
		return fmt.Errorf("open room: %w", err)
	}

	snap := Snapshot{State: c.state, TargetID: c.targetID, Room: c.room}
	c.mu.Unlock()

	slog.Info("connecting", "target", target.Label, "room", room)
	c.publish(snap)
	return nil
}

// JoinPrimary joins the target marked primary. Fails with
// ErrNoPrimaryTarget when the list is empty or nothing is primary.
func (c *Controller) JoinPrimary() error {
	primary, ok := c.resolver.PrimaryTarget()
	if !ok {
		return ErrNoPrimaryTarget
	}
	return c.Join(primary.ID)
}

// Hangup requests teardown. Always succeeds as a request: a no-op when
// Idle, a repeat no-op when already Disconnecting (the teardown is already
// on its way and is never dropped), otherwise it moves to Disconnecting
// and instructs the embed to close. Hangup while still Connecting is
// accepted so the user can always escape a stuck call.
func (c *Controller) Hangup() {
	c.mu.Lock()

	switch c.state {
	case Idle:
		c.mu.Unlock()
		slog.Debug("hangup ignored, already idle")
		return
	case Disconnecting:
		c.mu.Unlock()
		slog.Debug("hangup ignored, teardown already issued")
		return
	}

	c.state = Disconnecting
	if err := c.bridge.CloseRoom(); err != nil {
		// The embed will either still emit a left/closed event or an
		// error event; both roads lead back to Idle.
		slog.Error("close room failed", "err", err)
	}

	snap := Snapshot{State: c.state, TargetID: c.targetID, Room: c.room}
	c.mu.Unlock()

	slog.Info("disconnecting")
	c.publish(snap)
}

// HandleJoined is the embed's confirmation that the conference was joined.
// Only meaningful while Connecting; anything else is ignored, not fatal.
func (c *Controller) HandleJoined() {
	c.mu.Lock()

	if c.state != Connecting {
		st := c.state
		c.mu.Unlock()
		slog.Debug("joined event ignored", "state", st)
		return
	}

	c.state = InCall
	snap := Snapshot{State: c.state, TargetID: c.targetID, Room: c.room}
	c.mu.Unlock()

	slog.Info("in call", "target", snap.TargetID)
	c.publish(snap)
}

// HandleLeft is the embed reporting the conference ended or the window
// closed. Any non-idle state returns to Idle and the target is cleared.
func (c *Controller) HandleLeft() {
	c.mu.Lock()

	if c.state == Idle {
		c.mu.Unlock()
		return
	}

	c.state = Idle
	c.targetID = ""
	c.room = ""
	snap := Snapshot{State: Idle}
	c.mu.Unlock()

	slog.Info("call ended")
	c.publish(snap)
}

// HandleError is the embed reporting it failed or died. Treated as a
// forced hangup from any state so the controller can never be stuck in
// Connecting/InCall/Disconnecting.
func (c *Controller) HandleError(reason string) {
	c.mu.Lock()

	if c.state == Idle {
		c.mu.Unlock()
		slog.Warn("embed error while idle", "reason", reason)
		return
	}

	c.state = Idle
	c.targetID = ""
	c.room = ""
	snap := Snapshot{State: Idle}
	c.mu.Unlock()

	slog.Error("call failed, recovered to idle", "reason", reason)
	c.publish(snap)
}

func (c *Controller) publish(snap Snapshot) {
	if c.notify != nil {
		c.notify(snap)
	}
}

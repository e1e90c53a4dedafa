package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickcall/internal/call"
	"quickcall/internal/conference"
	"quickcall/internal/events"
	"quickcall/internal/models"
	"quickcall/internal/pairing"
	"quickcall/internal/storage"
)

type capturedEvent struct {
	name    string
	payload any
}

func captureEvents(t *testing.T) *[]capturedEvent {
	t.Helper()
	var captured []capturedEvent
	events.SetCustomEmitter(func(_ context.Context, name string, payload any) {
		captured = append(captured, capturedEvent{name: name, payload: payload})
	})
	t.Cleanup(func() { events.SetCustomEmitter(nil) })
	return &captured
}

func eventNames(captured []capturedEvent) []string {
	names := make([]string, len(captured))
	for i, e := range captured {
		names[i] = e.name
	}
	return names
}

func newCallFixture(t *testing.T) (CallService, *storage.Store, *[]capturedEvent) {
	t.Helper()
	captured := captureEvents(t)

	store, err := storage.Open(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	store.AddTarget(models.Target{
		ID:        "alex",
		Label:     "Alex",
		Code:      "abcd-efgh-ijkl-mnop-qrst",
		Type:      models.TargetPerson,
		CreatedAt: time.Now().UTC(),
	})

	window := conference.NewWindow()
	window.Startup(context.Background())

	svc := NewCallService(window, store)
	svc.Startup(context.Background())
	return svc, store, captured
}

func TestCallService_FullCallOverConferenceWindow(t *testing.T) {
	svc, _, captured := newCallFixture(t)

	require.NoError(t, svc.Join("alex"))
	svc.ConferenceJoined()
	svc.Hangup()
	svc.ConferenceLeft()

	assert.Equal(t, []string{
		events.ConferenceOpen,
		events.CallStateChanged, // connecting
		events.CallStateChanged, // in call
		events.ConferenceClose,
		events.CallStateChanged, // disconnecting
		events.CallStateChanged, // idle
	}, eventNames(*captured))

	open, ok := (*captured)[0].payload.(conference.OpenPayload)
	require.True(t, ok)
	assert.Equal(t, pairing.RoomID("abcd-efgh-ijkl-mnop-qrst"), open.Room)
}

func TestCallService_SecondJoinWhileBusyIsRejected(t *testing.T) {
	svc, _, captured := newCallFixture(t)

	require.NoError(t, svc.Join("alex"))
	err := svc.Join("alex")
	require.Error(t, err)
	assert.True(t, call.IsBusy(err))

	// Only one open instruction went out.
	opens := 0
	for _, e := range *captured {
		if e.name == events.ConferenceOpen {
			opens++
		}
	}
	assert.Equal(t, 1, opens)
}

func TestCallService_JoinPrimaryUsesPrimaryTarget(t *testing.T) {
	svc, _, _ := newCallFixture(t)

	require.NoError(t, svc.JoinPrimary())
	snap := svc.Snapshot()
	assert.Equal(t, "alex", snap.TargetID)
	assert.Equal(t, call.Connecting, snap.State)
	assert.Equal(t, "connecting", svc.StateName())
}

func TestCallService_ConferenceErrorRecoversAndNotifies(t *testing.T) {
	svc, _, captured := newCallFixture(t)

	require.NoError(t, svc.Join("alex"))
	svc.ConferenceError("webview crashed")

	assert.Equal(t, call.Idle, svc.Snapshot().State)

	last := (*captured)[len(*captured)-1]
	require.Equal(t, events.CallNotice, last.name)
	notice, ok := last.payload.(events.AppEvent)
	require.True(t, ok)
	assert.Equal(t, events.EventError, notice.Type)
	assert.Contains(t, notice.Message, "webview crashed")

	// The controller is immediately usable again.
	require.NoError(t, svc.Join("alex"))
}

func TestCallService_ParticipantJoinedHonorsNotificationPreference(t *testing.T) {
	svc, store, captured := newCallFixture(t)

	svc.ParticipantJoined("Sam")
	require.Len(t, *captured, 1)
	assert.Equal(t, events.CallParticipant, (*captured)[0].name)

	app := store.Settings().AppSettings
	app.ShowNotifications = false
	store.UpdateAppSettings(app)

	svc.ParticipantJoined("Sam")
	assert.Len(t, *captured, 1, "muted notifications emit nothing")
}

func TestCallService_ParticipantJoinedWithoutName(t *testing.T) {
	svc, _, captured := newCallFixture(t)

	svc.ParticipantJoined("")
	require.Len(t, *captured, 1)
	notice := (*captured)[0].payload.(events.AppEvent)
	assert.Contains(t, notice.Message, "Someone")
}

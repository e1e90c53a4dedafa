package hotkeys

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickcall/internal/models"
)

type fakeActions struct {
	mu          sync.Mutex
	joins       []string
	joinPrimary int
	hangups     int
}

func (a *fakeActions) Join(targetID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.joins = append(a.joins, targetID)
	return nil
}

func (a *fakeActions) JoinPrimary() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.joinPrimary++
	return nil
}

func (a *fakeActions) Hangup() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hangups++
}

type fakeRegistrar struct {
	bindings map[string]func()
	cleared  int
}

func (r *fakeRegistrar) Register(accel string, handler func()) error {
	if r.bindings == nil {
		r.bindings = make(map[string]func())
	}
	r.bindings[accel] = handler
	return nil
}

func (r *fakeRegistrar) UnregisterAll() error {
	r.cleared++
	r.bindings = nil
	return nil
}

func TestApply_RegistersAllBindings(t *testing.T) {
	reg := &fakeRegistrar{}
	actions := &fakeActions{}
	s := NewService(reg, actions)

	kb := models.Keybinds{
		JoinPrimary:   "Ctrl+Shift+J",
		Hangup:        "Ctrl+Shift+H",
		TargetHotkeys: map[string]string{"alex": "Ctrl+Shift+1"},
	}
	require.NoError(t, s.Apply(kb))

	assert.Equal(t, 1, reg.cleared)
	require.Len(t, reg.bindings, 3)

	reg.bindings["Ctrl+Shift+J"]()
	reg.bindings["Ctrl+Shift+1"]()
	reg.bindings["Ctrl+Shift+H"]()

	assert.Equal(t, 1, actions.joinPrimary)
	assert.Equal(t, []string{"alex"}, actions.joins)
	assert.Equal(t, 1, actions.hangups)
}

func TestApply_ReplacesPreviousBindings(t *testing.T) {
	reg := &fakeRegistrar{}
	s := NewService(reg, &fakeActions{})

	require.NoError(t, s.Apply(models.Keybinds{JoinPrimary: "Ctrl+Shift+J"}))
	require.NoError(t, s.Apply(models.Keybinds{JoinPrimary: "Ctrl+Alt+J"}))

	assert.Equal(t, 2, reg.cleared)
	assert.Len(t, reg.bindings, 1)
	_, ok := reg.bindings["Ctrl+Alt+J"]
	assert.True(t, ok)
}

func TestTrigger_DebouncesRapidPresses(t *testing.T) {
	actions := &fakeActions{}
	s := NewService(nil, actions)

	// A burst of presses inside the debounce window collapses to one
	// effective action.
	for i := 0; i < 10; i++ {
		s.TriggerJoinPrimary()
	}
	assert.Equal(t, 1, actions.joinPrimary)

	// Different actions debounce independently.
	for i := 0; i < 10; i++ {
		s.TriggerHangup()
	}
	assert.Equal(t, 1, actions.hangups)
}

func TestTrigger_DebouncePerTarget(t *testing.T) {
	actions := &fakeActions{}
	s := NewService(nil, actions)

	s.TriggerJoin("alex")
	s.TriggerJoin("alex")
	s.TriggerJoin("family")

	assert.Equal(t, []string{"alex", "family"}, actions.joins)
}

func TestTrigger_AllowsAgainAfterWindow(t *testing.T) {
	actions := &fakeActions{}
	s := NewService(nil, actions)

	// Shrink the limiter window instead of sleeping 1.5s in tests.
	s.TriggerHangup()
	s.mu.Lock()
	lim := s.limiters["hangup"]
	s.mu.Unlock()
	lim.SetLimit(1000) // effectively no wait

	time.Sleep(5 * time.Millisecond)
	s.TriggerHangup()
	assert.Equal(t, 2, actions.hangups)
}

func TestTrigger_ConcurrentBurstFiresOnce(t *testing.T) {
	actions := &fakeActions{}
	s := NewService(nil, actions)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.TriggerJoinPrimary()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, actions.joinPrimary)
}

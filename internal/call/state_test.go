package call

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_Transitions(t *testing.T) {
	all := []State{Idle, Connecting, InCall, Disconnecting}

	legal := map[[2]State]bool{
		{Idle, Connecting}:          true,
		{Connecting, InCall}:        true,
		{Connecting, Disconnecting}: true,
		{InCall, Disconnecting}:     true,
		{Disconnecting, Idle}:       true,
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[[2]State{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestState_Busy(t *testing.T) {
	assert.False(t, Idle.Busy())
	assert.True(t, Connecting.Busy())
	assert.True(t, InCall.Busy())
	assert.True(t, Disconnecting.Busy())
}

func TestState_JSON(t *testing.T) {
	data, err := InCall.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"in call"`, string(data))
}

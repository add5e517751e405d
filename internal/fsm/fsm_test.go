package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	s := StateIdle

	next, err := Transition(s, EventStart)
	require.NoError(t, err)
	require.Equal(t, StateRecording, next)

	next, err = Transition(next, EventStop)
	require.NoError(t, err)
	require.Equal(t, StateTranscribing, next)

	next, err = Transition(next, EventTranscribed)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

func TestTransitionDiscardSkipsTranscribing(t *testing.T) {
	next, err := Transition(StateRecording, EventDiscard)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

func TestTransitionStartWhileTranscribing(t *testing.T) {
	next, err := Transition(StateTranscribing, EventStart)
	require.NoError(t, err)
	require.Equal(t, StateRecording, next)

	next, err = Transition(next, EventStop)
	require.NoError(t, err)
	require.Equal(t, StateTranscribing, next)
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
	}{
		{name: "idle stop", state: StateIdle, event: EventStop},
		{name: "idle discard", state: StateIdle, event: EventDiscard},
		{name: "idle transcribed", state: StateIdle, event: EventTranscribed},
		{name: "recording start", state: StateRecording, event: EventStart},
		{name: "recording transcribed", state: StateRecording, event: EventTranscribed},
		{name: "transcribing stop", state: StateTranscribing, event: EventStop},
		{name: "transcribing discard", state: StateTranscribing, event: EventDiscard},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.state, next)
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid transition")
		})
	}
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventStart)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}

package tray

import (
	"testing"

	"github.com/rbright/transkeet/internal/fsm"
	"github.com/stretchr/testify/require"
)

func TestPresent(t *testing.T) {
	tests := []struct {
		state fsm.State
		title string
		label string
	}{
		{state: fsm.StateIdle, title: "🦜", label: "Start Recording"},
		{state: fsm.StateRecording, title: "🔴", label: "Stop Recording"},
		{state: fsm.StateTranscribing, title: "🔄", label: "Start Recording"},
	}
	for _, tc := range tests {
		title, label, tooltip := Present(tc.state)
		require.Equal(t, tc.title, title, tc.state)
		require.Equal(t, tc.label, label, tc.state)
		require.Contains(t, tooltip, "Transkeet")
	}
}

func TestSetStateBeforeReadyIsRemembered(t *testing.T) {
	tr := New(Info{}, nil, nil)
	require.Equal(t, fsm.StateIdle, tr.State())

	tr.SetState(fsm.StateRecording)
	require.Equal(t, fsm.StateRecording, tr.State())
}

func TestInfoLines(t *testing.T) {
	tr := New(Info{Mic: "Built-in Microphone", Hotkey: "cmd_r"}, nil, nil)
	require.Equal(t, []string{
		"Mic: Built-in Microphone",
		"Hotkey: cmd_r",
		"Model: unknown",
	}, tr.infoLines())
}

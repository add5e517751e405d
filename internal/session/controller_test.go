package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rbright/transkeet/internal/audio"
	"github.com/rbright/transkeet/internal/fsm"
	"github.com/rbright/transkeet/internal/ipc"
	"github.com/rbright/transkeet/internal/transcribe"
	"github.com/rbright/transkeet/internal/vocab"
	"github.com/stretchr/testify/require"
)

func TestStartTwiceOpensOneStream(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ctrl.Start(SourceHotkey))
	err := h.ctrl.Start(SourceMenu)
	require.ErrorIs(t, err, ErrBusy)

	require.Equal(t, fsm.StateRecording, h.ctrl.State())
	require.Equal(t, 1, h.source.opens)
	require.Equal(t, []fsm.State{fsm.StateRecording}, h.ui.seen())
}

func TestZeroSampleStopReturnsToIdleWithoutTranscribing(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ctrl.Start(SourceHotkey))
	require.NoError(t, h.ctrl.Stop(SourceHotkey))

	require.Equal(t, fsm.StateIdle, h.ctrl.State())
	require.Zero(t, h.transcriber.calls.Load())
	require.Equal(t, int32(1), h.source.stream.closes.Load())
	require.Equal(t, []fsm.State{fsm.StateRecording, fsm.StateIdle}, h.ui.seen())
	require.Empty(t, h.results)
}

func TestMinimumDurationGate(t *testing.T) {
	tests := []struct {
		name        string
		samples     int
		transcribed bool
		outcome     Outcome
	}{
		{name: "one sample short", samples: audio.MinSamples(audio.SampleRate) - 1, outcome: OutcomeNoSpeech},
		{name: "tap", samples: 160, outcome: OutcomeNoSpeech},
		{name: "exactly at threshold", samples: audio.MinSamples(audio.SampleRate), transcribed: true, outcome: OutcomePasted},
		{name: "one second", samples: audio.SampleRate, transcribed: true, outcome: OutcomePasted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, nil)

			require.NoError(t, h.ctrl.Start(SourceHotkey))
			h.source.emit(tc.samples, 320)
			require.NoError(t, h.ctrl.Stop(SourceHotkey))

			result := h.result(t)
			h.ctrl.Wait()
			require.Equal(t, tc.outcome, result.Outcome)
			require.Equal(t, tc.samples, result.Samples)
			require.Equal(t, tc.transcribed, h.transcriber.calls.Load() == 1)
			require.Equal(t, fsm.StateIdle, h.ctrl.State())
			require.Empty(t, h.feedback.titles())
		})
	}
}

func TestSuccessfulRecordingRewritesAndPastes(t *testing.T) {
	rewriter, err := vocab.Compile([]string{"VS Code"}, nil)
	require.NoError(t, err)

	h := newHarness(t, func(d *Deps) { d.Rewriter = rewriter })
	h.transcriber.text = "  i use vs code daily "

	require.NoError(t, h.ctrl.Start(SourceHotkey))
	h.source.emit(audio.SampleRate, 1024)
	require.NoError(t, h.ctrl.Stop(SourceHotkey))

	result := h.result(t)
	h.ctrl.Wait()

	require.Equal(t, OutcomePasted, result.Outcome)
	require.Equal(t, "i use VS Code daily", result.Text)
	require.Equal(t, int32(audio.SampleRate), h.transcriber.samples.Load())
	require.Equal(t, []string{"i use VS Code daily"}, h.output.texts)
	require.Equal(t, []string{"i use VS Code daily"}, h.archive.entries)
	require.Equal(t, []fsm.State{fsm.StateRecording, fsm.StateTranscribing, fsm.StateIdle}, h.ui.seen())
	require.Equal(t, []string{"start", "stop", "complete"}, h.feedback.cues)
}

func TestEmptyTranscriptSkipsPaste(t *testing.T) {
	h := newHarness(t, nil)
	h.transcriber.text = "   "

	require.NoError(t, h.ctrl.Start(SourceMenu))
	h.source.emit(audio.SampleRate, 4000)
	require.NoError(t, h.ctrl.Stop(SourceMenu))

	result := h.result(t)
	require.Equal(t, OutcomeEmpty, result.Outcome)
	require.Empty(t, h.output.texts)
	require.Empty(t, h.feedback.titles())
}

func TestTranscriptionFailureNotifiesAndReturnsToIdle(t *testing.T) {
	h := newHarness(t, nil)
	h.transcriber.err = &transcribe.ModelError{Op: "transcribe", Engine: "fake", Err: errors.New("exit status 1")}

	require.NoError(t, h.ctrl.Start(SourceHotkey))
	h.source.emit(audio.SampleRate, 4000)
	require.NoError(t, h.ctrl.Stop(SourceHotkey))

	result := h.result(t)
	h.ctrl.Wait()

	require.Equal(t, OutcomeFailed, result.Outcome)
	var modelErr *transcribe.ModelError
	require.ErrorAs(t, result.Err, &modelErr)
	require.Equal(t, []string{"Transcription failed"}, h.feedback.titles())
	require.Empty(t, h.output.texts)
	require.Equal(t, fsm.StateIdle, h.ctrl.State())

	// the controller is usable again
	require.NoError(t, h.ctrl.Start(SourceHotkey))
}

func TestPasteFailureNotifies(t *testing.T) {
	h := newHarness(t, nil)
	h.output.err = errors.New("paste: no focused window")

	require.NoError(t, h.ctrl.Start(SourceHotkey))
	h.source.emit(audio.SampleRate, 4000)
	require.NoError(t, h.ctrl.Stop(SourceHotkey))

	result := h.result(t)
	require.Equal(t, OutcomeFailed, result.Outcome)
	require.Equal(t, []string{"Paste failed"}, h.feedback.titles())
	require.Empty(t, h.archive.entries)
}

func TestDeviceErrorLeavesControllerIdle(t *testing.T) {
	h := newHarness(t, nil)
	h.source.openErr = &audio.DeviceError{Backend: "pulse", Err: errors.New("no such source")}

	err := h.ctrl.Start(SourceHotkey)
	var deviceErr *audio.DeviceError
	require.ErrorAs(t, err, &deviceErr)
	require.Equal(t, fsm.StateIdle, h.ctrl.State())
	require.Equal(t, []string{"Microphone unavailable"}, h.feedback.titles())
	require.Empty(t, h.ui.seen())
}

func TestPlainOpenErrorIsWrappedAsDeviceError(t *testing.T) {
	h := newHarness(t, nil)
	h.source.openErr = errors.New("boom")

	err := h.ctrl.Start(SourceMenu)
	var deviceErr *audio.DeviceError
	require.ErrorAs(t, err, &deviceErr)
	require.Equal(t, fsm.StateIdle, h.ctrl.State())
}

func TestStartWhileTranscribingQueuesInStopOrder(t *testing.T) {
	h := newHarness(t, nil)
	h.transcriber.release = make(chan struct{})
	h.transcriber.textFor = func(n int) string {
		if n == audio.SampleRate {
			return "first"
		}
		return "second"
	}

	require.NoError(t, h.ctrl.Start(SourceHotkey))
	h.source.emit(audio.SampleRate, 4000)
	require.NoError(t, h.ctrl.Stop(SourceHotkey))
	require.Equal(t, fsm.StateTranscribing, h.ctrl.State())

	require.NoError(t, h.ctrl.Start(SourceHotkey))
	require.Equal(t, fsm.StateRecording, h.ctrl.State())
	require.ErrorIs(t, h.ctrl.Start(SourceMenu), ErrBusy)
	h.source.emit(audio.SampleRate/2, 4000)
	require.NoError(t, h.ctrl.Stop(SourceHotkey))
	require.Equal(t, fsm.StateTranscribing, h.ctrl.State())
	require.Equal(t, 2, h.source.opens)

	close(h.transcriber.release)
	first := h.result(t)
	second := h.result(t)
	h.ctrl.Wait()

	require.Equal(t, "first", first.Text)
	require.Equal(t, "second", second.Text)
	require.Equal(t, []string{"first", "second"}, h.output.texts)
	require.Equal(t, fsm.StateIdle, h.ctrl.State())
	require.Equal(t, []fsm.State{
		fsm.StateRecording, fsm.StateTranscribing,
		fsm.StateRecording, fsm.StateTranscribing,
		fsm.StateIdle,
	}, h.ui.seen())
}

func TestEmptyRecordingWhileTranscribingKeepsQueueState(t *testing.T) {
	h := newHarness(t, nil)
	h.transcriber.release = make(chan struct{})

	require.NoError(t, h.ctrl.Start(SourceHotkey))
	h.source.emit(audio.SampleRate, 4000)
	require.NoError(t, h.ctrl.Stop(SourceHotkey))

	require.NoError(t, h.ctrl.Start(SourceHotkey))
	require.NoError(t, h.ctrl.Stop(SourceHotkey))
	require.Equal(t, fsm.StateTranscribing, h.ctrl.State())

	close(h.transcriber.release)
	h.result(t)
	h.ctrl.Wait()
	require.Equal(t, fsm.StateIdle, h.ctrl.State())
	require.Equal(t, int32(1), h.transcriber.calls.Load())
}

func TestStartAfterCloseIsRefused(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ctrl.Close())

	require.ErrorIs(t, h.ctrl.Start(SourceHotkey), ErrClosed)
	require.Zero(t, h.source.opens)
	require.Equal(t, fsm.StateIdle, h.ctrl.State())
}

func TestStopFromIdle(t *testing.T) {
	h := newHarness(t, nil)
	require.ErrorIs(t, h.ctrl.Stop(SourceMenu), ErrNotRecording)
}

func TestToggle(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ctrl.Toggle(SourceMenu))
	require.Equal(t, fsm.StateRecording, h.ctrl.State())

	h.source.emit(audio.SampleRate, 4000)
	require.NoError(t, h.ctrl.Toggle(SourceMenu))
	result := h.result(t)
	require.Equal(t, SourceMenu, result.Source)
	require.Equal(t, OutcomePasted, result.Outcome)
}

func TestCloseDiscardsActiveRecording(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ctrl.Start(SourceHotkey))
	h.source.emit(audio.SampleRate, 4000)
	require.NoError(t, h.ctrl.Close())

	require.Equal(t, fsm.StateIdle, h.ctrl.State())
	require.Equal(t, int32(1), h.source.stream.closes.Load())
	require.Zero(t, h.transcriber.calls.Load())
}

func TestHandleCommands(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	status := h.ctrl.Handle(ctx, ipc.Request{Command: ipc.CommandStatus})
	require.True(t, status.OK)
	require.Equal(t, string(fsm.StateIdle), status.State)

	stop := h.ctrl.Handle(ctx, ipc.Request{Command: ipc.CommandStop})
	require.False(t, stop.OK)
	require.Contains(t, stop.Error, "not recording")

	start := h.ctrl.Handle(ctx, ipc.Request{Command: ipc.CommandStart})
	require.True(t, start.OK)
	require.Equal(t, string(fsm.StateRecording), start.State)

	again := h.ctrl.Handle(ctx, ipc.Request{Command: ipc.CommandStart})
	require.False(t, again.OK)
	require.Contains(t, again.Error, "busy")

	toggle := h.ctrl.Handle(ctx, ipc.Request{Command: ipc.CommandToggle})
	require.True(t, toggle.OK)
	require.Equal(t, string(fsm.StateIdle), toggle.State)

	unknown := h.ctrl.Handle(ctx, ipc.Request{Command: "cancel"})
	require.False(t, unknown.OK)
	require.Contains(t, unknown.Error, "unknown command")
}

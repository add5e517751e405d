// Package fsm defines the recording lifecycle states and their legal transitions.
package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
)

const (
	// EventStart opens a capture stream.
	EventStart Event = "start"
	// EventStop closes the stream and hands the samples to transcription.
	EventStop Event = "stop"
	// EventDiscard closes the stream and drops the samples (zero-sample stop, shutdown).
	EventDiscard Event = "discard"
	// EventTranscribed ends the last queued background task, whatever its outcome.
	EventTranscribed Event = "transcribed"
)

func Transition(current State, event Event) (State, error) {
	switch current {
	case StateIdle:
		switch event {
		case EventStart:
			return StateRecording, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateRecording:
		switch event {
		case EventStop:
			return StateTranscribing, nil
		case EventDiscard:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateTranscribing:
		switch event {
		case EventStart:
			// earlier transcriptions keep running behind the new recording
			return StateRecording, nil
		case EventTranscribed:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}

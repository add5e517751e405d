package audio

import (
	"context"
	"fmt"
)

// Source opens capture streams on one audio backend.
type Source interface {
	// Open starts delivering mono float32 chunks at sampleRate. onChunk runs
	// on the backend's goroutine and receives a slice it may keep.
	Open(ctx context.Context, sampleRate int, onChunk func([]float32)) (Stream, error)
	// DeviceName resolves the input device that Open would use.
	DeviceName(ctx context.Context) (string, error)
}

// Stream is an open capture. After Close returns no further chunks are delivered.
// Close must not return while a chunk callback is still running.
type Stream interface {
	Close() error
}

// DeviceError reports that the input device could not be opened or read.
type DeviceError struct {
	Backend string
	Err     error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device (%s): %v", e.Backend, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

package audio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rbright/transkeet/internal/config"
)

// NewSource returns the capture source selected by audio.backend.
func NewSource(cfg config.AudioConfig, logger *slog.Logger) (Source, error) {
	switch cfg.Backend {
	case config.AudioBackendPulse:
		return &PulseSource{Input: cfg.Input, Fallback: cfg.Fallback, Logger: logger}, nil
	case config.AudioBackendPortAudio:
		return &PortAudioSource{Input: cfg.Input}, nil
	default:
		return nil, fmt.Errorf("unsupported audio.backend %q", cfg.Backend)
	}
}

// ListInputDevices lists capture devices for backend.
func ListInputDevices(ctx context.Context, backend string) ([]Device, error) {
	switch backend {
	case config.AudioBackendPulse:
		return ListDevices(ctx)
	case config.AudioBackendPortAudio:
		return ListPortAudioDevices(ctx)
	default:
		return nil, fmt.Errorf("unsupported audio.backend %q", backend)
	}
}

// Package transcribe turns finished audio buffers into text through a pluggable engine.
package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rbright/transkeet/internal/audio"
)

// Service is what the recording controller needs from a speech engine.
type Service interface {
	// Load prepares the engine. It is idempotent and may be slow.
	Load(ctx context.Context) error
	// Transcribe returns the text for mono samples at sampleRate. Silence may yield "".
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)
}

// Engine is one speech recognition backend working on a WAV file.
type Engine interface {
	Name() string
	Prepare(ctx context.Context) error
	Recognize(ctx context.Context, wavPath string) (string, error)
}

// ModelError reports an engine that failed to load or transcribe.
type ModelError struct {
	Op     string
	Engine string
	Err    error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Engine, e.Op, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// Options tune a Transcriber.
type Options struct {
	// TempDir holds the per-request WAV files; empty means os.TempDir().
	TempDir string
	// Timeout bounds one Recognize call; zero means no limit.
	Timeout time.Duration
	// DumpAudio keeps a copy of every request under the debug state dir.
	DumpAudio bool
}

// Transcriber loads its engine once and serializes WAV handoff to it.
type Transcriber struct {
	engine Engine
	opts   Options
	logger *slog.Logger

	mu     sync.Mutex
	loaded bool
}

var _ Service = (*Transcriber)(nil)

// NewTranscriber wraps engine with load-once semantics.
func NewTranscriber(engine Engine, opts Options, logger *slog.Logger) *Transcriber {
	return &Transcriber{engine: engine, opts: opts, logger: logger}
}

// Engine returns the wrapped engine name.
func (t *Transcriber) Engine() string {
	return t.engine.Name()
}

// Load prepares the engine on first call. A failed load is retried on the next call.
func (t *Transcriber) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked(ctx)
}

func (t *Transcriber) loadLocked(ctx context.Context) error {
	if t.loaded {
		return nil
	}
	started := time.Now()
	if err := t.engine.Prepare(ctx); err != nil {
		return &ModelError{Op: "load", Engine: t.engine.Name(), Err: err}
	}
	t.loaded = true
	if t.logger != nil {
		t.logger.Info("transcription engine loaded", "engine", t.engine.Name(), "load_ms", time.Since(started).Milliseconds())
	}
	return nil
}

// Transcribe encodes samples to a temporary WAV and runs the engine on it.
func (t *Transcriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	if sampleRate != audio.SampleRate {
		return "", &ModelError{Op: "transcribe", Engine: t.engine.Name(), Err: fmt.Errorf("unsupported sample rate %d (want %d)", sampleRate, audio.SampleRate)}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.loadLocked(ctx); err != nil {
		return "", err
	}

	path, err := writeTempWAV(t.opts.TempDir, samples, sampleRate)
	if err != nil {
		return "", &ModelError{Op: "transcribe", Engine: t.engine.Name(), Err: err}
	}
	defer func() { _ = os.Remove(path) }()

	if t.opts.DumpAudio {
		t.dumpAudio(samples, sampleRate)
	}

	if t.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
		defer cancel()
	}

	text, err := t.engine.Recognize(ctx, path)
	if err != nil {
		return "", &ModelError{Op: "transcribe", Engine: t.engine.Name(), Err: err}
	}
	return strings.TrimSpace(text), nil
}

func (t *Transcriber) dumpAudio(samples []float32, sampleRate int) {
	file, err := createDebugFile("audio", "wav")
	if err != nil {
		t.logWarn("unable to create debug audio dump", err)
		return
	}
	defer file.Close()

	if err := EncodeWAV(file, samples, sampleRate); err != nil {
		t.logWarn("unable to write debug audio dump", err)
	}
}

func (t *Transcriber) logWarn(message string, err error) {
	if t.logger == nil {
		return
	}
	t.logger.Warn(message, "error", err.Error())
}

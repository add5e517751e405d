// Package session owns the recording lifecycle: capture, transcription, and paste.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rbright/transkeet/internal/audio"
	"github.com/rbright/transkeet/internal/fsm"
	"github.com/rbright/transkeet/internal/indicator"
	"github.com/rbright/transkeet/internal/transcribe"
	"github.com/rbright/transkeet/internal/transcript"
	"github.com/rbright/transkeet/internal/vocab"
)

var (
	// ErrBusy is returned by Start when a recording is already in progress.
	ErrBusy = errors.New("recorder is busy")
	// ErrNotRecording is returned by Stop when no recording is active.
	ErrNotRecording = errors.New("not recording")
	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("controller is closed")
)

// Source identifies what requested a start or stop.
type Source string

const (
	SourceHotkey Source = "hotkey"
	SourceMenu   Source = "menu"
	SourceIPC    Source = "ipc"
)

// Output pastes finished text into the focused application.
type Output interface {
	PasteAndRestore(ctx context.Context, text string) error
}

// Feedback surfaces lifecycle events to the user. Implementations must not block
// for long and must not fail the caller.
type Feedback interface {
	Notify(ctx context.Context, title, message string)
	CueStart()
	CueStop()
	CueComplete()
	CueError()
}

// UI reflects the controller state (tray title and toggle label).
type UI interface {
	SetState(fsm.State)
}

// Archive stores pasted transcripts.
type Archive interface {
	Record(text string, audioDuration time.Duration) error
}

// Deps are the collaborators a Controller drives. Source and Transcriber are
// required; the rest may be nil.
type Deps struct {
	Source      audio.Source
	Transcriber transcribe.Service
	Rewriter    *vocab.Rewriter
	Output      Output
	Feedback    Feedback
	UI          UI
	Archive     Archive
	Transcript  transcript.Options
	Messages    indicator.Messages
	// OnResult, when set, receives every completed Result.
	OnResult func(Result)
}

// Controller serializes start/stop requests from the hotkey, the tray menu,
// and IPC. mu guards state and the open stream; it is never held while
// transcribing. A new recording may start while earlier ones are still being
// transcribed; their results are pasted strictly in the order they stopped.
type Controller struct {
	logger *slog.Logger
	deps   Deps
	ctx    context.Context

	mu        sync.Mutex
	state     fsm.State
	stream    audio.Stream
	buffer    *audio.Buffer
	source    Source
	startedAt time.Time
	closed    bool

	// pending counts queued or running tasks; lastDone is closed when the
	// most recently queued task finishes.
	pending  int
	lastDone chan struct{}

	tasks sync.WaitGroup
}

// NewController builds an idle controller. ctx bounds background transcription
// and is cancelled on shutdown.
func NewController(ctx context.Context, logger *slog.Logger, deps Deps) *Controller {
	if deps.Messages == (indicator.Messages{}) {
		deps.Messages = indicator.MessagesFromEnv()
	}
	return &Controller{
		logger: logger,
		deps:   deps,
		ctx:    ctx,
		state:  fsm.StateIdle,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() fsm.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start opens a capture stream. It is valid from idle or while earlier
// recordings are transcribing; during a recording it returns ErrBusy and
// leaves that recording untouched.
func (c *Controller) Start(source Source) error {
	err := c.start(source)
	if err == nil {
		c.cue(Feedback.CueStart)
		return nil
	}

	var deviceErr *audio.DeviceError
	if errors.As(err, &deviceErr) {
		c.logError("audio device unavailable", err, "source", source)
		c.cue(Feedback.CueError)
		c.notify(c.deps.Messages.MicUnavailable, deviceErr.Err.Error())
	}
	return err
}

func (c *Controller) start(source Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state == fsm.StateRecording {
		c.logWarn("start ignored", "source", source, "state", c.state)
		return fmt.Errorf("%w: %s", ErrBusy, c.state)
	}

	buffer := audio.NewBuffer()
	stream, err := c.deps.Source.Open(c.ctx, audio.SampleRate, buffer.Append)
	if err != nil {
		var deviceErr *audio.DeviceError
		if !errors.As(err, &deviceErr) {
			err = &audio.DeviceError{Backend: "unknown", Err: err}
		}
		return err
	}

	if err := c.transitionLocked(fsm.EventStart); err != nil {
		_ = stream.Close()
		return err
	}
	c.stream = stream
	c.buffer = buffer
	c.source = source
	c.startedAt = time.Now()
	c.logInfo("recording started", "source", source)
	return nil
}

// Stop closes the capture stream and hands the samples to a background
// transcription task. A stop with zero captured samples returns straight to
// idle.
func (c *Controller) Stop(source Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked(source)
}

// Toggle starts when idle and stops when recording.
func (c *Controller) Toggle(source Source) error {
	c.mu.Lock()
	if c.state == fsm.StateRecording {
		defer c.mu.Unlock()
		return c.stopLocked(source)
	}
	c.mu.Unlock()
	return c.Start(source)
}

func (c *Controller) stopLocked(source Source) error {
	if c.state != fsm.StateRecording {
		return fmt.Errorf("%w: %s", ErrNotRecording, c.state)
	}

	stream, buffer := c.stream, c.buffer
	c.stream, c.buffer = nil, nil
	if err := stream.Close(); err != nil {
		c.logWarn("close capture stream", "error", err.Error())
	}

	samples := buffer.Samples()
	if len(samples) == 0 {
		c.logInfo("recording stopped with no audio", "source", source)
		return c.discardLocked()
	}

	if err := c.transitionLocked(fsm.EventStop); err != nil {
		return err
	}
	c.logInfo("recording stopped", "source", source, "samples", len(samples), "queued", c.pending)
	c.cue(Feedback.CueStop)

	j := job{
		source:    c.source,
		samples:   samples,
		startedAt: c.startedAt,
		after:     c.lastDone,
		done:      make(chan struct{}),
	}
	c.lastDone = j.done
	c.pending++
	c.tasks.Add(1)
	go c.process(j)
	return nil
}

// discardLocked ends a recording without queueing it. With tasks still
// pending the controller stays in transcribing until they finish.
func (c *Controller) discardLocked() error {
	if c.pending > 0 {
		return c.transitionLocked(fsm.EventStop)
	}
	return c.transitionLocked(fsm.EventDiscard)
}

// finishLocked records the end of one task.
func (c *Controller) finishLocked() {
	c.pending--
	if c.pending > 0 || c.state != fsm.StateTranscribing {
		return
	}
	if err := c.transitionLocked(fsm.EventTranscribed); err != nil {
		c.logError("finish transcription", err)
	}
}

// Wait blocks until every background transcription has finished.
func (c *Controller) Wait() {
	c.tasks.Wait()
}

// Close discards an active recording, refuses further starts, and waits for
// background work.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	var err error
	if c.state == fsm.StateRecording {
		err = c.stream.Close()
		c.stream, c.buffer = nil, nil
		_ = c.discardLocked()
	}
	c.mu.Unlock()

	c.tasks.Wait()
	return err
}

func (c *Controller) transitionLocked(event fsm.Event) error {
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	if c.deps.UI != nil {
		c.deps.UI.SetState(next)
	}
	return nil
}

func (c *Controller) cue(fn func(Feedback)) {
	if c.deps.Feedback != nil {
		fn(c.deps.Feedback)
	}
}

func (c *Controller) notify(title, message string) {
	if c.deps.Feedback != nil {
		c.deps.Feedback.Notify(c.ctx, title, message)
	}
}

func (c *Controller) logInfo(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Controller) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Controller) logError(msg string, err error, args ...any) {
	if c.logger != nil {
		c.logger.Error(msg, append(args, "error", err.Error())...)
	}
}

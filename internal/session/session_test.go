package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rbright/transkeet/internal/audio"
	"github.com/rbright/transkeet/internal/fsm"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	closes atomic.Int32
}

func (s *fakeStream) Close() error {
	s.closes.Add(1)
	return nil
}

type fakeSource struct {
	mu      sync.Mutex
	opens   int
	openErr error
	onChunk func([]float32)
	stream  *fakeStream
}

func (s *fakeSource) Open(_ context.Context, sampleRate int, onChunk func([]float32)) (audio.Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sampleRate != audio.SampleRate {
		return nil, errors.New("unexpected sample rate")
	}
	if s.openErr != nil {
		return nil, s.openErr
	}
	s.opens++
	s.onChunk = onChunk
	s.stream = &fakeStream{}
	return s.stream, nil
}

func (s *fakeSource) DeviceName(context.Context) (string, error) { return "fake", nil }

// emit delivers n samples split into chunks of size.
func (s *fakeSource) emit(n, size int) {
	s.mu.Lock()
	onChunk := s.onChunk
	s.mu.Unlock()
	for n > 0 {
		chunk := make([]float32, min(size, n))
		onChunk(chunk)
		n -= len(chunk)
	}
}

type fakeTranscriber struct {
	calls   atomic.Int32
	samples atomic.Int32
	text    string
	// textFor, when set, picks the text from the sample count.
	textFor func(n int) string
	err     error
	release chan struct{}
}

func (f *fakeTranscriber) Load(context.Context) error { return nil }

func (f *fakeTranscriber) Transcribe(_ context.Context, samples []float32, _ int) (string, error) {
	f.calls.Add(1)
	f.samples.Store(int32(len(samples)))
	if f.release != nil {
		<-f.release
	}
	if f.textFor != nil {
		return f.textFor(len(samples)), f.err
	}
	return f.text, f.err
}

type fakeOutput struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (o *fakeOutput) PasteAndRestore(_ context.Context, text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.texts = append(o.texts, text)
	return o.err
}

type notification struct {
	title   string
	message string
}

type fakeFeedback struct {
	mu            sync.Mutex
	notifications []notification
	cues          []string
}

func (f *fakeFeedback) Notify(_ context.Context, title, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, notification{title, message})
}

func (f *fakeFeedback) cue(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cues = append(f.cues, name)
}

func (f *fakeFeedback) CueStart()    { f.cue("start") }
func (f *fakeFeedback) CueStop()     { f.cue("stop") }
func (f *fakeFeedback) CueComplete() { f.cue("complete") }
func (f *fakeFeedback) CueError()    { f.cue("error") }

func (f *fakeFeedback) titles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.notifications))
	for _, n := range f.notifications {
		out = append(out, n.title)
	}
	return out
}

type fakeUI struct {
	mu     sync.Mutex
	states []fsm.State
}

func (u *fakeUI) SetState(state fsm.State) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.states = append(u.states, state)
}

func (u *fakeUI) seen() []fsm.State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]fsm.State(nil), u.states...)
}

type fakeArchive struct {
	mu      sync.Mutex
	entries []string
}

func (a *fakeArchive) Record(text string, _ time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, text)
	return nil
}

type harness struct {
	ctrl        *Controller
	source      *fakeSource
	transcriber *fakeTranscriber
	output      *fakeOutput
	feedback    *fakeFeedback
	ui          *fakeUI
	archive     *fakeArchive
	results     chan Result
}

func newHarness(t *testing.T, configure func(*Deps)) *harness {
	t.Helper()
	h := &harness{
		source:      &fakeSource{},
		transcriber: &fakeTranscriber{text: "hello world"},
		output:      &fakeOutput{},
		feedback:    &fakeFeedback{},
		ui:          &fakeUI{},
		archive:     &fakeArchive{},
		results:     make(chan Result, 8),
	}
	deps := Deps{
		Source:      h.source,
		Transcriber: h.transcriber,
		Output:      h.output,
		Feedback:    h.feedback,
		UI:          h.ui,
		Archive:     h.archive,
		OnResult:    func(r Result) { h.results <- r },
	}
	if configure != nil {
		configure(&deps)
	}
	h.ctrl = NewController(context.Background(), nil, deps)
	t.Cleanup(func() { _ = h.ctrl.Close() })
	return h
}

func (h *harness) result(t *testing.T) Result {
	t.Helper()
	select {
	case r := <-h.results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
		return Result{}
	}
}

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rbright/transkeet/internal/audio"
	"github.com/rbright/transkeet/internal/transcript"
)

// Outcome classifies how one recording ended.
type Outcome string

const (
	// OutcomeNoSpeech means the buffer was below the minimum duration and was
	// never transcribed.
	OutcomeNoSpeech Outcome = "no_speech"
	// OutcomeEmpty means the engine returned no text.
	OutcomeEmpty Outcome = "empty"
	// OutcomePasted means the text reached the output stage without error.
	OutcomePasted Outcome = "pasted"
	// OutcomeFailed means transcription or paste failed; Err holds the cause.
	OutcomeFailed Outcome = "failed"
)

// Result describes one completed background task.
type Result struct {
	Outcome    Outcome
	Source     Source
	Raw        string
	Text       string
	Samples    int
	Audio      time.Duration
	Elapsed    time.Duration
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

type job struct {
	source    Source
	samples   []float32
	startedAt time.Time
	// after is closed when the previous job finishes; nil for the first.
	after chan struct{}
	done  chan struct{}
}

// process owns job.samples exclusively. It waits for the previous job so
// pastes land in stop order. Whatever happens, the deferred block releases the
// next job and, once the queue drains, returns the controller to idle.
func (c *Controller) process(j job) {
	result := Result{
		Source:    j.source,
		Samples:   len(j.samples),
		Audio:     time.Duration(int64(len(j.samples)) * int64(time.Second) / audio.SampleRate),
		StartedAt: j.startedAt,
	}
	began := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = OutcomeFailed
			result.Err = fmt.Errorf("transcription panic: %v", r)
			c.logError("transcription task panicked", result.Err)
			c.notify(c.deps.Messages.TranscriptionFailed, result.Err.Error())
		}
		result.Elapsed = time.Since(began)
		result.FinishedAt = time.Now()

		c.mu.Lock()
		c.finishLocked()
		c.mu.Unlock()

		if c.deps.OnResult != nil {
			c.deps.OnResult(result)
		}
		close(j.done)
		c.tasks.Done()
	}()

	if j.after != nil {
		<-j.after
		began = time.Now()
	}
	c.run(c.ctx, j, &result)
}

func (c *Controller) run(ctx context.Context, j job, result *Result) {
	if !audio.LongEnough(len(j.samples), audio.SampleRate) {
		result.Outcome = OutcomeNoSpeech
		c.logInfo("no speech detected", "audio", result.Audio.String())
		return
	}

	raw, err := c.deps.Transcriber.Transcribe(ctx, j.samples, audio.SampleRate)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		c.logError("transcription failed", err, "audio", result.Audio.String())
		c.cue(Feedback.CueError)
		c.notify(c.deps.Messages.TranscriptionFailed, err.Error())
		return
	}
	result.Raw = raw

	text := transcript.Normalize(c.deps.Rewriter.Apply(raw), c.deps.Transcript)
	result.Text = text
	if text == "" {
		result.Outcome = OutcomeEmpty
		c.logInfo("no speech detected", "audio", result.Audio.String(), "elapsed", time.Since(j.startedAt).String())
		return
	}

	if c.deps.Output != nil {
		if err := c.deps.Output.PasteAndRestore(ctx, text); err != nil {
			result.Outcome = OutcomeFailed
			result.Err = err
			c.logError("paste failed", err)
			c.cue(Feedback.CueError)
			c.notify(c.deps.Messages.PasteFailed, err.Error())
			return
		}
	}

	result.Outcome = OutcomePasted
	c.logInfo("transcribed",
		"audio", result.Audio.String(),
		"chars", len(text),
		"source", j.source,
	)
	c.cue(Feedback.CueComplete)

	if c.deps.Archive != nil {
		if err := c.deps.Archive.Record(text, result.Audio); err != nil {
			c.logWarn("history append failed", "error", err.Error())
		}
	}
}

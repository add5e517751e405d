// Package output delivers transcripts into the focused application through the clipboard.
package output

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultSettleDelay  = 50 * time.Millisecond
	DefaultConsumeDelay = 150 * time.Millisecond
)

// Snapshot is the clipboard text captured before a paste. Present is false when
// the clipboard held no text.
type Snapshot struct {
	Text    string
	Present bool
}

// Clipboard reads and writes the system text clipboard.
type Clipboard interface {
	Read(ctx context.Context) (Snapshot, error)
	Write(ctx context.Context, text string) error
	Clear(ctx context.Context) error
}

// Paster synthesizes the platform paste keystroke into the focused window.
type Paster interface {
	Paste(ctx context.Context) error
}

// ClipboardError reports a failed clipboard operation.
type ClipboardError struct {
	Op  string
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard %s: %v", e.Op, e.Err)
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// Sequencer pastes text by borrowing the clipboard and then restoring it.
// If another program writes the clipboard between the overwrite and the
// restore, the restore clobbers that write.
type Sequencer struct {
	clipboard Clipboard
	paster    Paster
	settle    time.Duration
	consume   time.Duration
	logger    *slog.Logger

	sleep func(context.Context, time.Duration)
}

// NewSequencer builds a sequencer. A nil paster leaves the text on the
// clipboard without pasting or restoring.
func NewSequencer(clipboard Clipboard, paster Paster, settle time.Duration, consume time.Duration, logger *slog.Logger) *Sequencer {
	return &Sequencer{
		clipboard: clipboard,
		paster:    paster,
		settle:    settle,
		consume:   consume,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// PasteAndRestore snapshots the clipboard, writes text, waits for the
// clipboard to settle, pastes, waits for the target to consume the paste,
// and restores the snapshot (or clears the clipboard when there was none).
// Restore failures are logged and never returned.
func (s *Sequencer) PasteAndRestore(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	snapshot, err := s.clipboard.Read(ctx)
	if err != nil {
		s.logWarn("clipboard snapshot unavailable; will clear after paste", &ClipboardError{Op: "read", Err: err})
		snapshot = Snapshot{}
	}

	if err := s.clipboard.Write(ctx, text); err != nil {
		return &ClipboardError{Op: "write", Err: err}
	}

	if s.paster == nil {
		return nil
	}

	s.sleep(ctx, s.settle)
	pasteErr := s.paster.Paste(ctx)
	if pasteErr == nil {
		s.sleep(ctx, s.consume)
	}

	s.restore(context.WithoutCancel(ctx), snapshot)

	if pasteErr != nil {
		return fmt.Errorf("paste: %w", pasteErr)
	}
	return nil
}

func (s *Sequencer) restore(ctx context.Context, snapshot Snapshot) {
	if snapshot.Present {
		if err := s.clipboard.Write(ctx, snapshot.Text); err != nil {
			s.logWarn("clipboard restore failed", &ClipboardError{Op: "restore", Err: err})
		}
		return
	}
	if err := s.clipboard.Clear(ctx); err != nil {
		s.logWarn("clipboard clear failed", &ClipboardError{Op: "clear", Err: err})
	}
}

func (s *Sequencer) logWarn(message string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(message, "error", err.Error())
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

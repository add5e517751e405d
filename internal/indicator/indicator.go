// Package indicator delivers user-facing notifications and audio cues.
package indicator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rbright/transkeet/internal/config"
)

const notifyTimeout = 2 * time.Second

// Indicator fans session events out to a Notifier and the sound cues. Delivery
// is best-effort: failures are logged at debug level and never returned.
type Indicator struct {
	notifier Notifier
	sound    bool
	logger   *slog.Logger
	messages Messages

	soundMu sync.Mutex
	play    func(context.Context, cueKind) error
	cues    sync.WaitGroup
}

// New wraps notifier. A nil notifier drops notifications.
func New(notifier Notifier, soundEnable bool, logger *slog.Logger) *Indicator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Indicator{
		notifier: notifier,
		sound:    soundEnable,
		logger:   logger,
		messages: MessagesFromEnv(),
		play:     emitCue,
	}
}

// NewFromConfig selects the notification backend from notify.backend.
func NewFromConfig(cfg config.Config, logger *slog.Logger) (*Indicator, error) {
	var notifier Notifier
	switch cfg.Notify.Backend {
	case config.NotifyBackendDesktop:
		notifier = NewDesktopNotifier(cfg.Notify.AppName, cfg.Notify.TimeoutMS)
	case config.NotifyBackendBeeep:
		notifier = BeeepNotifier{AppName: cfg.Notify.AppName}
	case config.NotifyBackendHypr:
		notifier = HyprNotifier{TimeoutMS: cfg.Notify.TimeoutMS}
	case config.NotifyBackendNone:
		notifier = NopNotifier{}
	default:
		return nil, fmt.Errorf("unsupported notify.backend %q", cfg.Notify.Backend)
	}
	return New(notifier, cfg.Indicator.SoundEnable, logger), nil
}

// Messages returns the localized notification strings.
func (i *Indicator) Messages() Messages {
	return i.messages
}

// Notify delivers title and message with a bounded timeout.
func (i *Indicator) Notify(ctx context.Context, title, message string) {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := i.notifier.Notify(runCtx, title, message); err != nil {
		i.log("notification failed", err)
	}
}

func (i *Indicator) CueStart()    { i.playCue(cueStart) }
func (i *Indicator) CueStop()     { i.playCue(cueStop) }
func (i *Indicator) CueComplete() { i.playCue(cueComplete) }
func (i *Indicator) CueError()    { i.playCue(cueError) }

// Wait blocks until queued cues finish playing.
func (i *Indicator) Wait() {
	i.cues.Wait()
}

// playCue serializes cue playback and emits audio asynchronously.
func (i *Indicator) playCue(kind cueKind) {
	if !i.sound {
		return
	}
	i.cues.Add(1)
	go func() {
		defer i.cues.Done()
		i.soundMu.Lock()
		defer i.soundMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := i.play(ctx, kind); err != nil {
			i.log("audio cue failed", err)
		}
	}()
}

// log emits debug-only indicator failures to the runtime logger.
func (i *Indicator) log(message string, err error) {
	if i.logger == nil || err == nil {
		return
	}
	i.logger.Debug(message, "error", err.Error())
}

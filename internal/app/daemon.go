package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rbright/transkeet/internal/audio"
	"github.com/rbright/transkeet/internal/config"
	"github.com/rbright/transkeet/internal/history"
	"github.com/rbright/transkeet/internal/hotkey"
	"github.com/rbright/transkeet/internal/indicator"
	"github.com/rbright/transkeet/internal/ipc"
	"github.com/rbright/transkeet/internal/output"
	"github.com/rbright/transkeet/internal/session"
	"github.com/rbright/transkeet/internal/transcribe"
	"github.com/rbright/transkeet/internal/transcript"
	"github.com/rbright/transkeet/internal/tray"
	"github.com/rbright/transkeet/internal/vocab"
)

const (
	acquireProbeTimeout = 180 * time.Millisecond
	acquireRetries      = 8
	deviceLookupTimeout = 2 * time.Second
)

// daemon holds everything built from config before the event loops start.
type daemon struct {
	combo       hotkey.Combo
	source      audio.Source
	transcriber *transcribe.Transcriber
	rewriter    *vocab.Rewriter
	output      *output.Sequencer
	indicator   *indicator.Indicator
	archive     *history.Store
}

func (r Runner) commandRun(ctx context.Context, loaded config.Loaded, logger *slog.Logger) int {
	if !loaded.Exists && loaded.Err == nil {
		created, err := config.WriteDefault(loaded.Path)
		switch {
		case err != nil:
			logger.Warn("write default config failed", "path", loaded.Path, "error", err.Error())
		case created:
			fmt.Fprintf(r.Stdout, "wrote default config to %s\n", loaded.Path)
			logger.Info("default config written", "path", loaded.Path)
		}
	}

	d, err := buildDaemon(loaded.Config, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("daemon setup failed", "error", err.Error())
		return 1
	}
	defer d.close(logger)

	socketPath := r.socketPath()
	listener, err := ipc.Acquire(ctx, socketPath, acquireProbeTimeout, acquireRetries, nil)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		if !errors.Is(err, ipc.ErrAlreadyRunning) {
			logger.Error("acquire socket failed", "socket", socketPath, "error", err.Error())
		}
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	if err := d.run(ctx, loaded.Config, listener, logger); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("daemon failed", "error", err.Error())
		return 1
	}
	return 0
}

func buildDaemon(cfg config.Config, logger *slog.Logger) (*daemon, error) {
	combo, err := hotkey.Parse(cfg.Hotkey)
	if err != nil {
		return nil, err
	}

	replacements := make([]vocab.Replacement, 0, len(cfg.Replacements))
	for _, repl := range cfg.Replacements {
		replacements = append(replacements, vocab.Replacement{Pattern: repl.Pattern, Replacement: repl.Replacement})
	}
	rewriter, err := vocab.Compile(cfg.Vocabulary, replacements)
	if err != nil {
		return nil, fmt.Errorf("compile vocabulary: %w", err)
	}

	transcriber, err := transcribe.New(cfg, rewriter.Terms(), logger)
	if err != nil {
		return nil, err
	}
	out, err := output.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	source, err := audio.NewSource(cfg.Audio, logger)
	if err != nil {
		return nil, err
	}
	ind, err := indicator.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	d := &daemon{
		combo:       combo,
		source:      source,
		transcriber: transcriber,
		rewriter:    rewriter,
		output:      out,
		indicator:   ind,
	}

	if cfg.History.Enable {
		d.archive = openArchive(cfg.History, logger)
	}
	return d, nil
}

// openArchive degrades to no history rather than refusing to start.
func openArchive(cfg config.HistoryConfig, logger *slog.Logger) *history.Store {
	dir, err := history.DefaultDir()
	if err == nil {
		var store *history.Store
		store, err = history.Open(dir, cfg.MaxEntries)
		if err == nil {
			return store
		}
	}
	logger.Warn("history disabled", "error", err.Error())
	return nil
}

func (d *daemon) close(logger *slog.Logger) {
	d.indicator.Wait()
	if d.archive != nil {
		if err := d.archive.Close(); err != nil {
			logger.Warn("close history failed", "error", err.Error())
		}
	}
}

func (d *daemon) run(parent context.Context, cfg config.Config, listener net.Listener, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var ctrl *session.Controller
	var menu *tray.Tray
	if cfg.Tray.Enable {
		menu = tray.New(d.trayInfo(ctx, cfg), func() {
			if err := ctrl.Toggle(session.SourceMenu); err != nil {
				logger.Info("menu toggle ignored", "error", err.Error())
			}
		}, cancel)
	}

	deps := session.Deps{
		Source:      d.source,
		Transcriber: d.transcriber,
		Rewriter:    d.rewriter,
		Output:      d.output,
		Feedback:    d.indicator,
		Transcript:  transcript.Options{TrailingSpace: cfg.Transcript.TrailingSpace, CapitalizeFirst: cfg.Transcript.CapitalizeFirst},
		Messages:    d.indicator.Messages(),
		OnResult:    func(res session.Result) { logSessionResult(logger, res) },
	}
	if menu != nil {
		deps.UI = menu
	}
	if d.archive != nil {
		deps.Archive = d.archive
	}
	ctrl = session.NewController(ctx, logger, deps)

	// inputs can start recordings; they are drained before the controller closes
	var inputs, background sync.WaitGroup
	serverErr := make(chan error, 1)
	inputs.Add(2)
	go func() {
		defer inputs.Done()
		serverErr <- ipc.Serve(ctx, listener, ctrl)
	}()
	go func() {
		defer inputs.Done()
		d.listenHotkey(ctx, ctrl, logger)
	}()
	background.Add(1)
	go func() {
		defer background.Done()
		d.load(ctx)
	}()

	logger.Info("daemon ready", "hotkey", d.combo.String(), "engine", d.transcriber.Engine(), "tray", menu != nil)

	if menu != nil {
		go func() {
			<-ctx.Done()
			menu.Quit()
		}()
		menu.Run()
	} else {
		<-ctx.Done()
	}

	logger.Info("daemon shutting down")
	cancel()
	inputs.Wait()
	if err := ctrl.Close(); err != nil {
		logger.Warn("discard recording on shutdown failed", "error", err.Error())
	}
	background.Wait()

	if err := <-serverErr; err != nil {
		return fmt.Errorf("ipc server failed: %w", err)
	}
	return nil
}

// listenHotkey runs until ctx ends. A hook failure leaves the tray and IPC usable.
func (d *daemon) listenHotkey(ctx context.Context, ctrl *session.Controller, logger *slog.Logger) {
	dispatch := hotkey.NewDispatcher(logger,
		func() error { return ctrl.Start(session.SourceHotkey) },
		func() error { return ctrl.Stop(session.SourceHotkey) },
	)
	listener := hotkey.NewListener(logger, hotkey.NewMatcher(d.combo), dispatch)
	if err := listener.Run(ctx); err != nil {
		logger.Error("hotkey listener stopped", "error", err.Error())
		d.indicator.Notify(ctx, "Hotkey unavailable", err.Error())
	}
}

// load prepares the engine eagerly so the first recording does not pay for it.
func (d *daemon) load(ctx context.Context) {
	msgs := d.indicator.Messages()
	if err := d.transcriber.Load(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		d.indicator.Notify(ctx, msgs.LoadFailed, err.Error())
		return
	}
	d.indicator.Notify(ctx, msgs.ReadyTitle, msgs.ReadyBody)
}

func (d *daemon) trayInfo(ctx context.Context, cfg config.Config) tray.Info {
	lookupCtx, cancel := context.WithTimeout(ctx, deviceLookupTimeout)
	defer cancel()

	mic, err := d.source.DeviceName(lookupCtx)
	if err != nil {
		mic = "unavailable"
	}
	return tray.Info{Mic: mic, Hotkey: d.combo.String(), Model: cfg.Model}
}

func logSessionResult(logger *slog.Logger, result session.Result) {
	if logger == nil {
		return
	}
	fields := []any{
		"outcome", result.Outcome,
		"source", result.Source,
		"started_at", result.StartedAt.Format(time.RFC3339Nano),
		"finished_at", result.FinishedAt.Format(time.RFC3339Nano),
		"elapsed_ms", result.Elapsed.Milliseconds(),
		"audio_ms", result.Audio.Milliseconds(),
		"samples", result.Samples,
		"transcript_length", len(result.Text),
	}

	if result.Err != nil {
		logger.Error("session failed", append(fields, "error", result.Err.Error())...)
		return
	}
	logger.Info("session complete", fields...)
}

// Package app executes parsed CLI commands: the daemon, remote control, and local tooling.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rbright/transkeet/internal/audio"
	"github.com/rbright/transkeet/internal/cli"
	"github.com/rbright/transkeet/internal/config"
	"github.com/rbright/transkeet/internal/doctor"
	"github.com/rbright/transkeet/internal/history"
	"github.com/rbright/transkeet/internal/ipc"
	"github.com/rbright/transkeet/internal/logging"
	"github.com/rbright/transkeet/internal/version"
)

const (
	binaryName     = "transkeet"
	forwardTimeout = 220 * time.Millisecond
	historyLimit   = 20
	stateStopped   = "stopped"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	// SocketPath overrides ipc.RuntimeSocketPath.
	SocketPath string
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText(binaryName))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	if parsed.Command.IsRemote() {
		logger.Debug("command start", "command", parsed.Command)
		return r.forward(ctx, parsed.Command)
	}

	loaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	r.reportWarnings(logger, loaded.Warnings)

	logger.Info("command start",
		"command", parsed.Command,
		"config", loaded.Path,
		"config_exists", loaded.Exists,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandRun:
		return r.commandRun(ctx, loaded, logger)
	case cli.CommandDoctor:
		report := doctor.Run(loaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx, loaded.Config.Audio.Backend)
	case cli.CommandHistory:
		return r.commandHistory(loaded.Config)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) reportWarnings(logger *slog.Logger, warnings []config.Warning) {
	for _, w := range warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}
}

func (r Runner) socketPath() string {
	if r.SocketPath != "" {
		return r.SocketPath
	}
	return ipc.RuntimeSocketPath()
}

// forward sends a control command to the running daemon.
func (r Runner) forward(ctx context.Context, command cli.Command) int {
	resp, handled, err := tryForward(ctx, r.socketPath(), string(command))
	if !handled {
		if command == cli.CommandStatus {
			fmt.Fprintln(r.Stdout, stateStopped)
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %s is not running (start it with `%s run`)\n", binaryName, binaryName)
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	if command == cli.CommandStatus {
		state := resp.State
		if state == "" {
			state = "idle"
		}
		fmt.Fprintln(r.Stdout, state)
		return 0
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

func (r Runner) commandDevices(ctx context.Context, backend string) int {
	devices, err := audio.ListInputDevices(ctx, backend)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !device.Available {
			availability = "no"
		}
		muted := "no"
		if device.Muted {
			muted = "yes"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			availability,
			muted,
		)
	}

	return 0
}

func (r Runner) commandHistory(cfg config.Config) int {
	dir, err := history.DefaultDir()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	store, err := history.Open(dir, cfg.History.MaxEntries)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v (is the daemon running?)\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(historyLimit)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		if !cfg.History.Enable {
			fmt.Fprintln(r.Stdout, "history is disabled (set history.enable to true)")
		} else {
			fmt.Fprintln(r.Stdout, "no transcripts yet")
		}
		return 0
	}
	for _, entry := range entries {
		fmt.Fprintf(r.Stdout, "%s  %5.1fs  %s\n",
			entry.At.Local().Format("2006-01-02 15:04:05"),
			entry.Duration.Seconds(),
			strings.TrimSpace(entry.Text),
		)
	}
	return 0
}

// tryForward reports handled=false when no daemon owns the socket.
func tryForward(ctx context.Context, socketPath string, command string) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: command}, forwardTimeout)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if ipc.IsUnavailable(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", command, err)
}

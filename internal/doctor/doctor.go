// Package doctor runs readiness diagnostics for config, desktop tools, audio, and the speech engine.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rbright/transkeet/internal/audio"
	"github.com/rbright/transkeet/internal/config"
	"github.com/rbright/transkeet/internal/hotkey"
	"github.com/rbright/transkeet/internal/transcribe"
)

const engineCheckTimeout = 5 * time.Second

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(loaded config.Loaded) Report {
	cfg := loaded.Config
	checks := []Check{checkConfig(loaded), checkHotkey(cfg.Hotkey)}

	checks = append(checks, checkClipboard(cfg.Clipboard))
	if cfg.Paste.Enable {
		checks = append(checks, checkPaste(cfg.Paste))
	}
	if check, ok := checkNotify(cfg.Notify); ok {
		checks = append(checks, check)
	}
	checks = append(checks, checkAudioSelection(cfg))
	checks = append(checks, checkTranscription(cfg))

	return Report{Checks: checks}
}

func checkConfig(loaded config.Loaded) Check {
	if loaded.Err != nil {
		return Check{Name: "config", Pass: false, Message: loaded.Err.Error()}
	}
	message := fmt.Sprintf("loaded %q", loaded.Path)
	if !loaded.Exists {
		message = fmt.Sprintf("%q not found, using defaults", loaded.Path)
	}
	if n := len(loaded.Warnings); n > 0 {
		message = fmt.Sprintf("%s (%d warnings)", message, n)
	}
	return Check{Name: "config", Pass: true, Message: message}
}

func checkHotkey(spec string) Check {
	combo, err := hotkey.Parse(spec)
	if err != nil {
		return Check{Name: "hotkey", Pass: false, Message: err.Error()}
	}
	return Check{Name: "hotkey", Pass: true, Message: combo.String()}
}

func checkClipboard(cfg config.ClipboardConfig) Check {
	if cfg.Backend == config.ClipboardBackendCommand {
		return checkCommand(cfg.Write.Argv, "clipboard.write_cmd")
	}
	if clipboard.Unsupported {
		return Check{Name: "clipboard", Pass: false, Message: "no system clipboard utility found (install wl-clipboard, xclip, or xsel)"}
	}
	return Check{Name: "clipboard", Pass: true, Message: "system clipboard available"}
}

func checkPaste(cfg config.PasteConfig) Check {
	switch cfg.Backend {
	case config.PasteBackendHypr:
		if strings.TrimSpace(os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")) == "" {
			return Check{Name: "paste", Pass: false, Message: "paste.backend=hypr but HYPRLAND_INSTANCE_SIGNATURE is empty"}
		}
		return checkBinary("hyprctl", "paste.backend=hypr requires hyprctl")
	case config.PasteBackendCommand:
		return checkCommand(cfg.Command.Argv, "paste.command")
	default:
		return Check{Name: "paste", Pass: true, Message: "synthetic keystroke via " + cfg.Backend}
	}
}

func checkNotify(cfg config.NotifyConfig) (Check, bool) {
	switch cfg.Backend {
	case config.NotifyBackendDesktop:
		return checkEnv("DBUS_SESSION_BUS_ADDRESS", func(v string) bool {
			return strings.TrimSpace(v) != ""
		}, "session bus available for notifications", "DBUS_SESSION_BUS_ADDRESS is empty"), true
	case config.NotifyBackendHypr:
		return checkBinary("hyprctl", "notify.backend=hypr requires hyprctl"), true
	default:
		return Check{}, false
	}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(cfg config.Config) Check {
	if cfg.Audio.Backend == config.AudioBackendPortAudio {
		src := &audio.PortAudioSource{Input: cfg.Audio.Input}
		name, err := src.DeviceName(context.Background())
		if err != nil {
			return Check{Name: "audio.device", Pass: false, Message: err.Error()}
		}
		return Check{Name: "audio.device", Pass: true, Message: fmt.Sprintf("selected %q", name)}
	}

	selection, err := audio.SelectDevice(context.Background(), cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkTranscription builds the configured engine and runs its load step.
func checkTranscription(cfg config.Config) Check {
	t, err := transcribe.New(cfg, cfg.Vocabulary, nil)
	if err != nil {
		return Check{Name: "transcription", Pass: false, Message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(context.Background(), engineCheckTimeout)
	defer cancel()
	if err := t.Load(ctx); err != nil {
		return Check{Name: "transcription", Pass: false, Message: err.Error()}
	}
	return Check{Name: "transcription", Pass: true, Message: fmt.Sprintf("%s engine ready (model %s)", t.Engine(), cfg.Model)}
}

package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Validate repairs invalid fields by restoring their defaults and reports
// each repair as a warning. It never rejects a config outright. The hotkey is
// left exactly as written: hotkey.Parse rejects a malformed one at startup,
// and silently rebinding push-to-talk would be worse than refusing to start.
func Validate(cfg Config) (Config, []Warning) {
	def := Default()
	warnings := make([]Warning, 0)
	reset := func(format string, args ...any) {
		warnings = append(warnings, Warning{Message: fmt.Sprintf(format, args...)})
	}

	switch cfg.Transcription.Backend {
	case TranscriptionBackendCommand:
		if len(cfg.Transcription.Command.Argv) == 0 {
			reset("transcription.command must not be empty; using %q", def.Transcription.Command.Raw)
			cfg.Transcription.Command = def.Transcription.Command
		}
		if strings.TrimSpace(cfg.Model) == "" && strings.Contains(cfg.Transcription.Command.Raw, "{model}") {
			reset("model must not be empty when transcription.command uses {model}; using %q", def.Model)
			cfg.Model = def.Model
		}
	case TranscriptionBackendOpenAI:
		if strings.TrimSpace(cfg.Model) == "" {
			reset("model must not be empty; using %q", def.Model)
			cfg.Model = def.Model
		}
		if cfg.Transcription.APIKeyEnv == "" {
			cfg.Transcription.APIKeyEnv = def.Transcription.APIKeyEnv
		}
	default:
		reset("transcription.backend %q is not one of: command, openai; using %q", cfg.Transcription.Backend, def.Transcription.Backend)
		cfg.Transcription.Backend = def.Transcription.Backend
		if len(cfg.Transcription.Command.Argv) == 0 {
			cfg.Transcription.Command = def.Transcription.Command
		}
	}
	if cfg.Transcription.TimeoutMS < 0 {
		reset("transcription.timeout_ms must be >= 0; using %d", def.Transcription.TimeoutMS)
		cfg.Transcription.TimeoutMS = def.Transcription.TimeoutMS
	}

	switch cfg.Audio.Backend {
	case AudioBackendPulse, AudioBackendPortAudio:
	default:
		reset("audio.backend %q is not one of: pulse, portaudio; using %q", cfg.Audio.Backend, def.Audio.Backend)
		cfg.Audio.Backend = def.Audio.Backend
	}
	if strings.TrimSpace(cfg.Audio.Input) == "" {
		cfg.Audio.Input = def.Audio.Input
	}
	if strings.TrimSpace(cfg.Audio.Fallback) == "" {
		cfg.Audio.Fallback = def.Audio.Fallback
	}

	switch cfg.Clipboard.Backend {
	case ClipboardBackendSystem:
	case ClipboardBackendCommand:
		if len(cfg.Clipboard.Write.Argv) == 0 {
			reset("clipboard.write_cmd must not be empty when clipboard.backend=command; using %q", def.Clipboard.Write.Raw)
			cfg.Clipboard.Write = def.Clipboard.Write
		}
	default:
		reset("clipboard.backend %q is not one of: system, command; using %q", cfg.Clipboard.Backend, def.Clipboard.Backend)
		cfg.Clipboard.Backend = def.Clipboard.Backend
	}

	switch cfg.Paste.Backend {
	case PasteBackendKeyboard:
	case PasteBackendHypr:
		if strings.TrimSpace(cfg.Paste.Shortcut) == "" {
			reset("paste.shortcut must not be empty when paste.backend=hypr; using %q", def.Paste.Shortcut)
			cfg.Paste.Shortcut = def.Paste.Shortcut
		}
	case PasteBackendCommand:
		if len(cfg.Paste.Command.Argv) == 0 {
			reset("paste.command must not be empty when paste.backend=command; using %q", def.Paste.Backend)
			cfg.Paste.Backend = def.Paste.Backend
		}
	default:
		reset("paste.backend %q is not one of: keyboard, hypr, command; using %q", cfg.Paste.Backend, def.Paste.Backend)
		cfg.Paste.Backend = def.Paste.Backend
	}
	if cfg.Paste.SettleMS < 0 {
		reset("paste.settle_ms must be >= 0; using %d", def.Paste.SettleMS)
		cfg.Paste.SettleMS = def.Paste.SettleMS
	}
	if cfg.Paste.RestoreMS < 0 {
		reset("paste.restore_ms must be >= 0; using %d", def.Paste.RestoreMS)
		cfg.Paste.RestoreMS = def.Paste.RestoreMS
	}

	var replacements []ReplacementConfig
	for i, r := range cfg.Replacements {
		if r.Pattern == "" {
			reset("replacements[%d] has an empty pattern; skipping", i)
			continue
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			reset("replacements[%d] pattern %q does not compile: %v; skipping", i, r.Pattern, err)
			continue
		}
		replacements = append(replacements, r)
	}
	cfg.Replacements = replacements

	switch cfg.Notify.Backend {
	case NotifyBackendDesktop, NotifyBackendBeeep, NotifyBackendHypr, NotifyBackendNone:
	default:
		reset("notify.backend %q is not one of: desktop, beeep, hypr, none; using %q", cfg.Notify.Backend, def.Notify.Backend)
		cfg.Notify.Backend = def.Notify.Backend
	}
	if strings.TrimSpace(cfg.Notify.AppName) == "" {
		cfg.Notify.AppName = def.Notify.AppName
	}
	if cfg.Notify.TimeoutMS < 0 {
		reset("notify.timeout_ms must be >= 0; using %d", def.Notify.TimeoutMS)
		cfg.Notify.TimeoutMS = def.Notify.TimeoutMS
	}

	if cfg.History.MaxEntries <= 0 {
		reset("history.max_entries must be > 0; using %d", def.History.MaxEntries)
		cfg.History.MaxEntries = def.History.MaxEntries
	}

	return cfg, warnings
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileContent is written on first run. Every value matches Default().
const DefaultFileContent = `// transkeet configuration (JSONC: comments and trailing commas are allowed)
{
  // Hold this combination to record; release to transcribe and paste.
  // Modifiers: cmd, shift, ctrl, alt. Add _l or _r for one side only.
  "hotkey": "cmd_r",

  // Model file (command backend) or model name (openai backend).
  "model": "~/.local/share/transkeet/ggml-base.en.bin",

  "transcription": {
    // command: run a local recognizer on a WAV file. openai: POST to an
    // OpenAI-compatible /audio/transcriptions endpoint.
    "backend": "command",
    "command": "whisper-cli --no-timestamps --no-prints --model {model} --file {wav}",
    "base_url": "",
    "api_key_env": "OPENAI_API_KEY",
    "language": "",
    "timeout_ms": 60000,
  },

  "audio": {
    // pulse or portaudio
    "backend": "pulse",
    "input": "default",
    "fallback": "default",
  },

  "clipboard": {
    // system or command
    "backend": "system",
    "read_cmd": "wl-paste --no-newline",
    "write_cmd": "wl-copy",
    "clear_cmd": "wl-copy --clear",
  },

  "paste": {
    "enable": true,
    // keyboard, hypr, or command
    "backend": "keyboard",
    "shortcut": "CTRL,V",
    "command": "",
    "settle_ms": 50,
    "restore_ms": 150,
  },

  // Words the recognizer tends to get wrong, in their preferred spelling.
  "vocabulary": [],

  // Ordered regex substitutions applied after vocabulary terms.
  "replacements": [],

  "transcript": {
    "trailing_space": false,
    "capitalize_first": false,
  },

  "notify": {
    // desktop, beeep, hypr, or none
    "backend": "desktop",
    "app_name": "Transkeet",
    "timeout_ms": 4000,
  },

  "indicator": {
    "sound_enable": true,
  },

  "tray": {
    "enable": true,
  },

  "history": {
    "enable": false,
    "max_entries": 200,
  },

  "debug": {
    "audio_dump": false,
  },
}
`

// WriteDefault creates path with DefaultFileContent when no file exists.
// It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create config %q: %w", path, err)
	}

	if _, err := f.WriteString(DefaultFileContent); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("write config %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close config %q: %w", path, err)
	}
	return true, nil
}

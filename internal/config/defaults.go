package config

const (
	DefaultHotkey = "cmd_r"
	DefaultModel  = "~/.local/share/transkeet/ggml-base.en.bin"

	defaultTranscriptionCommand = "whisper-cli --no-timestamps --no-prints --model {model} --file {wav}"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Hotkey: DefaultHotkey,
		Model:  DefaultModel,
		Transcription: TranscriptionConfig{
			Backend:   TranscriptionBackendCommand,
			Command:   mustCommand(defaultTranscriptionCommand),
			APIKeyEnv: "OPENAI_API_KEY",
			TimeoutMS: 60000,
		},
		Audio: AudioConfig{
			Backend:  AudioBackendPulse,
			Input:    "default",
			Fallback: "default",
		},
		Clipboard: ClipboardConfig{
			Backend: ClipboardBackendSystem,
			Read:    mustCommand("wl-paste --no-newline"),
			Write:   mustCommand("wl-copy"),
			Clear:   mustCommand("wl-copy --clear"),
		},
		Paste: PasteConfig{
			Enable:    true,
			Backend:   PasteBackendKeyboard,
			Shortcut:  "CTRL,V",
			SettleMS:  50,
			RestoreMS: 150,
		},
		Transcript: TranscriptConfig{TrailingSpace: false},
		Notify: NotifyConfig{
			Backend:   NotifyBackendDesktop,
			AppName:   "Transkeet",
			TimeoutMS: 4000,
		},
		Indicator: IndicatorConfig{SoundEnable: true},
		Tray:      TrayConfig{Enable: true},
		History:   HistoryConfig{Enable: false, MaxEntries: 200},
	}
}

func mustCommand(raw string) CommandConfig {
	return CommandConfig{Raw: raw, Argv: mustParseArgv(raw)}
}

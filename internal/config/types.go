// Package config resolves, parses, validates, and defaults transkeet configuration.
package config

// Config is the fully materialized runtime configuration.
type Config struct {
	Hotkey        string
	Model         string
	Transcription TranscriptionConfig
	Audio         AudioConfig
	Clipboard     ClipboardConfig
	Paste         PasteConfig
	Vocabulary    []string
	Replacements  []ReplacementConfig
	Transcript    TranscriptConfig
	Notify        NotifyConfig
	Indicator     IndicatorConfig
	Tray          TrayConfig
	History       HistoryConfig
	Debug         DebugConfig
}

const (
	TranscriptionBackendCommand = "command"
	TranscriptionBackendOpenAI  = "openai"

	AudioBackendPulse     = "pulse"
	AudioBackendPortAudio = "portaudio"

	ClipboardBackendSystem  = "system"
	ClipboardBackendCommand = "command"

	PasteBackendKeyboard = "keyboard"
	PasteBackendHypr     = "hypr"
	PasteBackendCommand  = "command"

	NotifyBackendDesktop = "desktop"
	NotifyBackendBeeep   = "beeep"
	NotifyBackendHypr    = "hypr"
	NotifyBackendNone    = "none"
)

// TranscriptionConfig selects and tunes the speech engine.
type TranscriptionConfig struct {
	Backend   string
	Command   CommandConfig
	BaseURL   string
	APIKeyEnv string
	Language  string
	TimeoutMS int
}

// AudioConfig controls the capture backend and input-source selection.
type AudioConfig struct {
	Backend  string
	Input    string
	Fallback string
}

// ClipboardConfig selects how the clipboard is read and written.
type ClipboardConfig struct {
	Backend string
	Read    CommandConfig
	Write   CommandConfig
	Clear   CommandConfig
}

// PasteConfig controls the paste keystroke and the delays around it.
type PasteConfig struct {
	Enable    bool
	Backend   string
	Shortcut  string
	Command   CommandConfig
	SettleMS  int
	RestoreMS int
}

// ReplacementConfig is one ordered regex substitution.
type ReplacementConfig struct {
	Pattern     string
	Replacement string
}

// TranscriptConfig controls transcript formatting.
type TranscriptConfig struct {
	TrailingSpace   bool
	CapitalizeFirst bool
}

// NotifyConfig controls user-facing notifications.
type NotifyConfig struct {
	Backend   string
	AppName   string
	TimeoutMS int
}

// IndicatorConfig controls audio cues.
type IndicatorConfig struct {
	SoundEnable bool
}

// TrayConfig controls the menu-bar icon.
type TrayConfig struct {
	Enable bool
}

// HistoryConfig controls the local transcript history.
type HistoryConfig struct {
	Enable     bool
	MaxEntries int
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// DebugConfig controls optional debug artifact output.
type DebugConfig struct {
	AudioDump bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}

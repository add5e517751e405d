package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// filePayload is the on-disk shape shared by the JSONC, TOML, and YAML readers.
// Pointer fields distinguish "absent" from zero values.
type filePayload struct {
	Hotkey        *string               `json:"hotkey" toml:"hotkey" yaml:"hotkey"`
	Model         *string               `json:"model" toml:"model" yaml:"model"`
	Transcription *transcriptionPayload `json:"transcription" toml:"transcription" yaml:"transcription"`
	Audio         *audioPayload         `json:"audio" toml:"audio" yaml:"audio"`
	Clipboard     *clipboardPayload     `json:"clipboard" toml:"clipboard" yaml:"clipboard"`
	Paste         *pastePayload         `json:"paste" toml:"paste" yaml:"paste"`
	Vocabulary    *stringList           `json:"vocabulary" toml:"vocabulary" yaml:"vocabulary"`
	Replacements  *[]replacementPayload `json:"replacements" toml:"replacements" yaml:"replacements"`
	Transcript    *transcriptPayload    `json:"transcript" toml:"transcript" yaml:"transcript"`
	Notify        *notifyPayload        `json:"notify" toml:"notify" yaml:"notify"`
	Indicator     *indicatorPayload     `json:"indicator" toml:"indicator" yaml:"indicator"`
	Tray          *trayPayload          `json:"tray" toml:"tray" yaml:"tray"`
	History       *historyPayload       `json:"history" toml:"history" yaml:"history"`
	Debug         *debugPayload         `json:"debug" toml:"debug" yaml:"debug"`
}

type transcriptionPayload struct {
	Backend   *string `json:"backend" toml:"backend" yaml:"backend"`
	Command   *string `json:"command" toml:"command" yaml:"command"`
	BaseURL   *string `json:"base_url" toml:"base_url" yaml:"base_url"`
	APIKeyEnv *string `json:"api_key_env" toml:"api_key_env" yaml:"api_key_env"`
	Language  *string `json:"language" toml:"language" yaml:"language"`
	TimeoutMS *int    `json:"timeout_ms" toml:"timeout_ms" yaml:"timeout_ms"`
}

type audioPayload struct {
	Backend  *string `json:"backend" toml:"backend" yaml:"backend"`
	Input    *string `json:"input" toml:"input" yaml:"input"`
	Fallback *string `json:"fallback" toml:"fallback" yaml:"fallback"`
}

type clipboardPayload struct {
	Backend  *string `json:"backend" toml:"backend" yaml:"backend"`
	ReadCmd  *string `json:"read_cmd" toml:"read_cmd" yaml:"read_cmd"`
	WriteCmd *string `json:"write_cmd" toml:"write_cmd" yaml:"write_cmd"`
	ClearCmd *string `json:"clear_cmd" toml:"clear_cmd" yaml:"clear_cmd"`
}

type pastePayload struct {
	Enable    *bool   `json:"enable" toml:"enable" yaml:"enable"`
	Backend   *string `json:"backend" toml:"backend" yaml:"backend"`
	Shortcut  *string `json:"shortcut" toml:"shortcut" yaml:"shortcut"`
	Command   *string `json:"command" toml:"command" yaml:"command"`
	SettleMS  *int    `json:"settle_ms" toml:"settle_ms" yaml:"settle_ms"`
	RestoreMS *int    `json:"restore_ms" toml:"restore_ms" yaml:"restore_ms"`
}

type replacementPayload struct {
	Pattern     string `json:"pattern" toml:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" toml:"replacement" yaml:"replacement"`
}

type transcriptPayload struct {
	TrailingSpace   *bool `json:"trailing_space" toml:"trailing_space" yaml:"trailing_space"`
	CapitalizeFirst *bool `json:"capitalize_first" toml:"capitalize_first" yaml:"capitalize_first"`
}

type notifyPayload struct {
	Backend   *string `json:"backend" toml:"backend" yaml:"backend"`
	AppName   *string `json:"app_name" toml:"app_name" yaml:"app_name"`
	TimeoutMS *int    `json:"timeout_ms" toml:"timeout_ms" yaml:"timeout_ms"`
}

type indicatorPayload struct {
	SoundEnable *bool `json:"sound_enable" toml:"sound_enable" yaml:"sound_enable"`
}

type trayPayload struct {
	Enable *bool `json:"enable" toml:"enable" yaml:"enable"`
}

type historyPayload struct {
	Enable     *bool `json:"enable" toml:"enable" yaml:"enable"`
	MaxEntries *int  `json:"max_entries" toml:"max_entries" yaml:"max_entries"`
}

type debugPayload struct {
	AudioDump *bool `json:"audio_dump" toml:"audio_dump" yaml:"audio_dump"`
}

// stringList accepts a JSON string array or one comma-delimited string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = splitCommaList(single)
		return nil
	}

	return fmt.Errorf("expected string array or comma-delimited string")
}

func splitCommaList(single string) []string {
	parts := strings.Split(single, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// applyTo overlays present fields onto cfg. Unparseable command strings keep
// the previous value and produce a warning.
func (payload filePayload) applyTo(cfg *Config) []Warning {
	var warnings []Warning

	command := func(key string, raw *string, dst *CommandConfig) {
		if raw == nil {
			return
		}
		parsed, err := ParseCommand(*raw)
		if err != nil {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("invalid %s: %v; using %q", key, err, dst.Raw)})
			return
		}
		*dst = parsed
	}

	if payload.Hotkey != nil {
		cfg.Hotkey = strings.TrimSpace(*payload.Hotkey)
	}
	if payload.Model != nil {
		cfg.Model = strings.TrimSpace(*payload.Model)
	}

	if p := payload.Transcription; p != nil {
		if p.Backend != nil {
			cfg.Transcription.Backend = strings.ToLower(strings.TrimSpace(*p.Backend))
		}
		command("transcription.command", p.Command, &cfg.Transcription.Command)
		if p.BaseURL != nil {
			cfg.Transcription.BaseURL = strings.TrimSpace(*p.BaseURL)
		}
		if p.APIKeyEnv != nil {
			cfg.Transcription.APIKeyEnv = strings.TrimSpace(*p.APIKeyEnv)
		}
		if p.Language != nil {
			cfg.Transcription.Language = strings.TrimSpace(*p.Language)
		}
		if p.TimeoutMS != nil {
			cfg.Transcription.TimeoutMS = *p.TimeoutMS
		}
	}

	if p := payload.Audio; p != nil {
		if p.Backend != nil {
			cfg.Audio.Backend = strings.ToLower(strings.TrimSpace(*p.Backend))
		}
		if p.Input != nil {
			cfg.Audio.Input = *p.Input
		}
		if p.Fallback != nil {
			cfg.Audio.Fallback = *p.Fallback
		}
	}

	if p := payload.Clipboard; p != nil {
		if p.Backend != nil {
			cfg.Clipboard.Backend = strings.ToLower(strings.TrimSpace(*p.Backend))
		}
		command("clipboard.read_cmd", p.ReadCmd, &cfg.Clipboard.Read)
		command("clipboard.write_cmd", p.WriteCmd, &cfg.Clipboard.Write)
		command("clipboard.clear_cmd", p.ClearCmd, &cfg.Clipboard.Clear)
	}

	if p := payload.Paste; p != nil {
		if p.Enable != nil {
			cfg.Paste.Enable = *p.Enable
		}
		if p.Backend != nil {
			cfg.Paste.Backend = strings.ToLower(strings.TrimSpace(*p.Backend))
		}
		if p.Shortcut != nil {
			cfg.Paste.Shortcut = strings.TrimSpace(*p.Shortcut)
		}
		command("paste.command", p.Command, &cfg.Paste.Command)
		if p.SettleMS != nil {
			cfg.Paste.SettleMS = *p.SettleMS
		}
		if p.RestoreMS != nil {
			cfg.Paste.RestoreMS = *p.RestoreMS
		}
	}

	if payload.Vocabulary != nil {
		cfg.Vocabulary = nil
		for _, term := range *payload.Vocabulary {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			cfg.Vocabulary = append(cfg.Vocabulary, term)
		}
	}

	if payload.Replacements != nil {
		cfg.Replacements = nil
		for _, r := range *payload.Replacements {
			cfg.Replacements = append(cfg.Replacements, ReplacementConfig(r))
		}
	}

	if p := payload.Transcript; p != nil {
		if p.TrailingSpace != nil {
			cfg.Transcript.TrailingSpace = *p.TrailingSpace
		}
		if p.CapitalizeFirst != nil {
			cfg.Transcript.CapitalizeFirst = *p.CapitalizeFirst
		}
	}

	if p := payload.Notify; p != nil {
		if p.Backend != nil {
			cfg.Notify.Backend = strings.ToLower(strings.TrimSpace(*p.Backend))
		}
		if p.AppName != nil {
			cfg.Notify.AppName = strings.TrimSpace(*p.AppName)
		}
		if p.TimeoutMS != nil {
			cfg.Notify.TimeoutMS = *p.TimeoutMS
		}
	}

	if payload.Indicator != nil && payload.Indicator.SoundEnable != nil {
		cfg.Indicator.SoundEnable = *payload.Indicator.SoundEnable
	}
	if payload.Tray != nil && payload.Tray.Enable != nil {
		cfg.Tray.Enable = *payload.Tray.Enable
	}

	if p := payload.History; p != nil {
		if p.Enable != nil {
			cfg.History.Enable = *p.Enable
		}
		if p.MaxEntries != nil {
			cfg.History.MaxEntries = *p.MaxEntries
		}
	}

	if payload.Debug != nil && payload.Debug.AudioDump != nil {
		cfg.Debug.AudioDump = *payload.Debug.AudioDump
	}

	return warnings
}

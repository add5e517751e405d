package indicator

import (
	"os"
	"strings"
)

type locale string

const (
	localeEnglish locale = "en"
)

// Messages holds every user-facing notification string.
type Messages struct {
	ReadyTitle          string
	ReadyBody           string
	LoadFailed          string
	TranscriptionFailed string
	NoSpeech            string
	PasteFailed         string
	MicUnavailable      string
}

// MessagesFromEnv resolves notification text for the current $LANG.
func MessagesFromEnv() Messages {
	return messagesFor(resolveLocale(os.Getenv("LANG")))
}

func resolveLocale(raw string) locale {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(raw, "en") {
		return localeEnglish
	}
	return localeEnglish
}

func messagesFor(tag locale) Messages {
	switch tag {
	case localeEnglish:
		fallthrough
	default:
		return Messages{
			ReadyTitle:          "Ready",
			ReadyBody:           "Model loaded. Hold your hotkey to record.",
			LoadFailed:          "Model failed to load",
			TranscriptionFailed: "Transcription failed",
			NoSpeech:            "No speech detected",
			PasteFailed:         "Paste failed",
			MicUnavailable:      "Microphone unavailable",
		}
	}
}

func isErrorTitle(title string) bool {
	m := messagesFor(localeEnglish)
	switch title {
	case m.LoadFailed, m.TranscriptionFailed, m.PasteFailed, m.MicUnavailable:
		return true
	default:
		return false
	}
}

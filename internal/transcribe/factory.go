package transcribe

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rbright/transkeet/internal/config"
)

// New builds the transcriber selected by transcription.backend. Vocabulary
// terms are passed to engines that accept a recognition prompt.
func New(cfg config.Config, terms []string, logger *slog.Logger) (*Transcriber, error) {
	var engine Engine
	switch cfg.Transcription.Backend {
	case config.TranscriptionBackendCommand:
		engine = &CommandEngine{Argv: cfg.Transcription.Command.Argv, Model: cfg.Model}
	case config.TranscriptionBackendOpenAI:
		engine = NewOpenAIEngine(OpenAIOptions{
			BaseURL:   cfg.Transcription.BaseURL,
			APIKeyEnv: cfg.Transcription.APIKeyEnv,
			Model:     cfg.Model,
			Language:  cfg.Transcription.Language,
			Prompt:    strings.Join(terms, ", "),
		})
	default:
		return nil, fmt.Errorf("unsupported transcription.backend %q", cfg.Transcription.Backend)
	}

	return NewTranscriber(engine, Options{
		Timeout:   time.Duration(cfg.Transcription.TimeoutMS) * time.Millisecond,
		DumpAudio: cfg.Debug.AudioDump,
	}, logger), nil
}

package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIOptions configure an OpenAI-compatible transcription endpoint.
type OpenAIOptions struct {
	// BaseURL targets a local or self-hosted server; empty means api.openai.com.
	BaseURL string
	// APIKeyEnv names the environment variable holding the key.
	APIKeyEnv string
	Model     string
	Language  string
	// Prompt biases recognition toward custom vocabulary.
	Prompt string
}

// OpenAIEngine posts WAV files to /audio/transcriptions.
type OpenAIEngine struct {
	opts   OpenAIOptions
	apiKey string
	client openai.Client
}

// NewOpenAIEngine builds the client; the key is read from the environment now.
func NewOpenAIEngine(opts OpenAIOptions) *OpenAIEngine {
	apiKey := strings.TrimSpace(os.Getenv(opts.APIKeyEnv))

	clientOpts := []option.RequestOption{}
	switch {
	case apiKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	case opts.BaseURL != "":
		// local servers usually ignore auth but the header is still required
		clientOpts = append(clientOpts, option.WithAPIKey("transkeet"))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &OpenAIEngine{
		opts:   opts,
		apiKey: apiKey,
		client: openai.NewClient(clientOpts...),
	}
}

func (e *OpenAIEngine) Name() string {
	return "openai:" + e.opts.Model
}

// Prepare validates credentials and model selection without a network call.
func (e *OpenAIEngine) Prepare(_ context.Context) error {
	if strings.TrimSpace(e.opts.Model) == "" {
		return errors.New("model is empty")
	}
	if e.apiKey == "" && e.opts.BaseURL == "" {
		return fmt.Errorf("%s is not set", e.opts.APIKeyEnv)
	}
	return nil
}

// Recognize uploads one WAV file and returns the transcript text.
func (e *OpenAIEngine) Recognize(ctx context.Context, wavPath string) (string, error) {
	file, err := os.Open(wavPath)
	if err != nil {
		return "", fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(file, "audio.wav", "audio/wav"),
		Model: openai.AudioModel(e.opts.Model),
	}
	if e.opts.Language != "" {
		params.Language = openai.String(e.opts.Language)
	}
	if e.opts.Prompt != "" {
		params.Prompt = openai.String(e.opts.Prompt)
	}

	resp, err := e.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return resp.Text, nil
}

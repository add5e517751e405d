package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAIEngineRecognizePostsMultipart(t *testing.T) {
	var gotModel, gotPrompt, gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		gotPrompt = r.FormValue("prompt")
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		gotFile = header.Filename

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello from the server"}`))
	}))
	defer server.Close()

	t.Setenv("TRANSKEET_TEST_KEY", "")
	engine := NewOpenAIEngine(OpenAIOptions{
		BaseURL:   server.URL + "/v1/",
		APIKeyEnv: "TRANSKEET_TEST_KEY",
		Model:     "whisper-1",
		Prompt:    "Kubernetes, VS Code",
	})
	require.NoError(t, engine.Prepare(context.Background()))

	wavPath := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, os.WriteFile(wavPath, []byte("RIFF0000WAVE"), 0o600))

	text, err := engine.Recognize(context.Background(), wavPath)
	require.NoError(t, err)
	require.Equal(t, "hello from the server", text)
	require.Equal(t, "whisper-1", gotModel)
	require.Equal(t, "Kubernetes, VS Code", gotPrompt)
	require.Equal(t, "audio.wav", gotFile)
}

func TestOpenAIEnginePrepareRequiresKeyForHostedAPI(t *testing.T) {
	t.Setenv("TRANSKEET_TEST_KEY", "")
	engine := NewOpenAIEngine(OpenAIOptions{APIKeyEnv: "TRANSKEET_TEST_KEY", Model: "whisper-1"})
	err := engine.Prepare(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "TRANSKEET_TEST_KEY is not set")

	t.Setenv("TRANSKEET_TEST_KEY", "sk-test")
	engine = NewOpenAIEngine(OpenAIOptions{APIKeyEnv: "TRANSKEET_TEST_KEY", Model: "whisper-1"})
	require.NoError(t, engine.Prepare(context.Background()))

	noModel := NewOpenAIEngine(OpenAIOptions{APIKeyEnv: "TRANSKEET_TEST_KEY"})
	require.Error(t, noModel.Prepare(context.Background()))
}

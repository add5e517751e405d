package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-audio/wav"
	"github.com/rbright/transkeet/internal/audio"
	"github.com/rbright/transkeet/internal/config"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	prepareErr error
	text       string
	err        error

	prepares  atomic.Int32
	recognize atomic.Int32
	lastPath  string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Prepare(context.Context) error {
	f.prepares.Add(1)
	return f.prepareErr
}

func (f *fakeEngine) Recognize(_ context.Context, wavPath string) (string, error) {
	f.recognize.Add(1)
	f.lastPath = wavPath
	if _, err := os.Stat(wavPath); err != nil {
		return "", err
	}
	return f.text, f.err
}

func TestTranscriberLoadsOnce(t *testing.T) {
	engine := &fakeEngine{text: "  hello world \n"}
	tr := NewTranscriber(engine, Options{TempDir: t.TempDir()}, nil)

	require.NoError(t, tr.Load(context.Background()))
	require.NoError(t, tr.Load(context.Background()))

	text, err := tr.Transcribe(context.Background(), make([]float32, audio.SampleRate), audio.SampleRate)
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
	require.Equal(t, int32(1), engine.prepares.Load())
}

func TestTranscriberLazyLoadAndRetryAfterFailure(t *testing.T) {
	engine := &fakeEngine{prepareErr: errors.New("weights missing")}
	tr := NewTranscriber(engine, Options{TempDir: t.TempDir()}, nil)

	_, err := tr.Transcribe(context.Background(), make([]float32, 10), audio.SampleRate)
	var modelErr *ModelError
	require.ErrorAs(t, err, &modelErr)
	require.Equal(t, "load", modelErr.Op)
	require.Zero(t, engine.recognize.Load())

	engine.prepareErr = nil
	engine.text = "ok"
	text, err := tr.Transcribe(context.Background(), make([]float32, 10), audio.SampleRate)
	require.NoError(t, err)
	require.Equal(t, "ok", text)
	require.Equal(t, int32(2), engine.prepares.Load())
}

func TestTranscriberRejectsOtherSampleRates(t *testing.T) {
	engine := &fakeEngine{}
	tr := NewTranscriber(engine, Options{}, nil)

	_, err := tr.Transcribe(context.Background(), make([]float32, 10), 44100)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported sample rate 44100")
	require.Zero(t, engine.prepares.Load())
}

func TestTranscriberRemovesTempWAVAndWrapsErrors(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{err: errors.New("decoder crashed")}
	tr := NewTranscriber(engine, Options{TempDir: dir}, nil)

	_, err := tr.Transcribe(context.Background(), []float32{0.1, -0.1}, audio.SampleRate)
	var modelErr *ModelError
	require.ErrorAs(t, err, &modelErr)
	require.Equal(t, "transcribe", modelErr.Op)
	require.Contains(t, err.Error(), "decoder crashed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Equal(t, dir, filepath.Dir(engine.lastPath))
}

func TestTranscriberDumpsAudioWhenEnabled(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)

	tr := NewTranscriber(&fakeEngine{text: "x"}, Options{TempDir: t.TempDir(), DumpAudio: true}, nil)
	_, err := tr.Transcribe(context.Background(), make([]float32, 100), audio.SampleRate)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(stateDir, "transkeet", "debug", "audio-*.wav"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestEncodeWAVWritesMono16BitPCM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, EncodeWAV(file, []float32{0, 0.5, -0.5, 2, -2}, audio.SampleRate))
	require.NoError(t, file.Close())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	dec := wav.NewDecoder(in)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	require.Equal(t, audio.SampleRate, buf.Format.SampleRate)
	require.Equal(t, 1, buf.Format.NumChannels)
	require.Equal(t, []int{0, 16383, -16383, 32767, -32767}, buf.Data)
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Backend = config.TranscriptionBackendCommand
	tr, err := New(cfg, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "command:whisper-cli", tr.Engine())

	cfg.Transcription.Backend = config.TranscriptionBackendOpenAI
	cfg.Model = "whisper-1"
	tr, err = New(cfg, []string{"Kubernetes"}, nil)
	require.NoError(t, err)
	require.Equal(t, "openai:whisper-1", tr.Engine())

	cfg.Transcription.Backend = "carrier-pigeon"
	_, err = New(cfg, nil, nil)
	require.Error(t, err)
}

package indicator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rbright/transkeet/internal/config"
	"github.com/stretchr/testify/require"
)

type recordedNotification struct {
	title   string
	message string
}

func TestIndicatorNotifySwallowsErrors(t *testing.T) {
	var got []recordedNotification
	ind := New(NotifierFunc(func(_ context.Context, title, message string) error {
		got = append(got, recordedNotification{title, message})
		return errors.New("no notification daemon")
	}), false, nil)

	ind.Notify(context.Background(), "Transcription failed", "engine crashed")
	require.Equal(t, []recordedNotification{{"Transcription failed", "engine crashed"}}, got)
}

func TestIndicatorNotifyOutlivesCancelledContext(t *testing.T) {
	var ctxErr error
	ind := New(NotifierFunc(func(ctx context.Context, _, _ string) error {
		ctxErr = ctx.Err()
		return nil
	}), false, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ind.Notify(ctx, "Ready", "")
	require.NoError(t, ctxErr)
}

func TestIndicatorCuesPlayInOrderWhenEnabled(t *testing.T) {
	ind := New(nil, true, nil)
	var (
		mu     sync.Mutex
		played []cueKind
	)
	ind.play = func(_ context.Context, kind cueKind) error {
		mu.Lock()
		played = append(played, kind)
		mu.Unlock()
		return nil
	}

	ind.CueStart()
	ind.Wait()
	ind.CueStop()
	ind.Wait()
	ind.CueComplete()
	ind.Wait()
	ind.CueError()
	ind.Wait()

	require.Equal(t, []cueKind{cueStart, cueStop, cueComplete, cueError}, played)
}

func TestIndicatorCuesSilentWhenDisabled(t *testing.T) {
	ind := New(nil, false, nil)
	ind.play = func(context.Context, cueKind) error {
		t.Fatal("cue played while sound disabled")
		return nil
	}
	ind.CueStart()
	ind.Wait()
}

func TestNewFromConfigBackends(t *testing.T) {
	for _, backend := range []string{
		config.NotifyBackendDesktop,
		config.NotifyBackendBeeep,
		config.NotifyBackendHypr,
		config.NotifyBackendNone,
	} {
		cfg := config.Default()
		cfg.Notify.Backend = backend
		ind, err := NewFromConfig(cfg, nil)
		require.NoError(t, err, backend)
		require.NotNil(t, ind)
	}

	cfg := config.Default()
	cfg.Notify.Backend = "bogus"
	_, err := NewFromConfig(cfg, nil)
	require.Error(t, err)
}

func TestHyprNotifierFormatsText(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "hypr-args.log")
	t.Setenv("HYPR_ARGS_FILE", argsFile)
	installHyprctlStub(t, `
printf '%s\n' "$*" >> "${HYPR_ARGS_FILE}"
`)

	n := HyprNotifier{TimeoutMS: 4000}
	require.NoError(t, n.Notify(context.Background(), "Ready", "Model loaded. Hold your hotkey to record."))
	require.NoError(t, n.Notify(context.Background(), "Transcription failed", ""))

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "--quiet dispatch notify 1 4000 rgb(89b4fa) Ready: Model loaded. Hold your hotkey to record.", lines[0])
	require.Equal(t, "--quiet dispatch notify 3 4000 rgb(89b4fa) Transcription failed", lines[1])
}

func installHyprctlStub(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "hyprctl")
	script := "#!/usr/bin/env bash\nset -euo pipefail\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}

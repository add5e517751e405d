package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	wavPlaceholder   = "{wav}"
	modelPlaceholder = "{model}"
)

// CommandEngine runs a local speech-to-text CLI and reads the transcript from stdout.
// Argv may reference {wav} and {model}; without {wav} the file path is appended.
type CommandEngine struct {
	Argv  []string
	Model string
}

func (e *CommandEngine) Name() string {
	if len(e.Argv) == 0 {
		return "command"
	}
	return "command:" + filepath.Base(e.Argv[0])
}

// Prepare checks that the binary and any referenced model file exist.
func (e *CommandEngine) Prepare(_ context.Context) error {
	if len(e.Argv) == 0 {
		return errors.New("transcription.command is empty")
	}
	if _, err := exec.LookPath(e.Argv[0]); err != nil {
		return fmt.Errorf("find %s: %w", e.Argv[0], err)
	}
	if !e.usesModel() {
		return nil
	}
	model := expandHome(e.Model)
	if strings.TrimSpace(model) == "" {
		return errors.New("model is empty but transcription.command references {model}")
	}
	if looksLikePath(model) {
		if _, err := os.Stat(model); err != nil {
			return fmt.Errorf("model file: %w", err)
		}
	}
	return nil
}

// Recognize runs the command for one WAV file.
func (e *CommandEngine) Recognize(ctx context.Context, wavPath string) (string, error) {
	argv := e.expand(wavPath)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("run %s: %w", argv[0], err)
		}
		return "", fmt.Errorf("run %s: %w (%s)", argv[0], err, lastLine(detail))
	}
	return stdout.String(), nil
}

func (e *CommandEngine) expand(wavPath string) []string {
	model := expandHome(e.Model)
	argv := make([]string, 0, len(e.Argv)+1)
	sawWAV := false
	for _, arg := range e.Argv {
		if strings.Contains(arg, wavPlaceholder) {
			sawWAV = true
		}
		arg = strings.ReplaceAll(arg, wavPlaceholder, wavPath)
		arg = strings.ReplaceAll(arg, modelPlaceholder, model)
		argv = append(argv, arg)
	}
	if !sawWAV {
		argv = append(argv, wavPath)
	}
	return argv
}

func (e *CommandEngine) usesModel() bool {
	for _, arg := range e.Argv {
		if strings.Contains(arg, modelPlaceholder) {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func looksLikePath(s string) bool {
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".bin") || strings.HasSuffix(s, ".gguf")
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

package output

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

const commandTimeout = 2 * time.Second

// SystemClipboard uses the platform clipboard (pbcopy, xclip/xsel, wl-clipboard, Win32).
type SystemClipboard struct{}

// Read returns the clipboard text; an empty clipboard reads as absent.
func (SystemClipboard) Read(context.Context) (Snapshot, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Text: text, Present: text != ""}, nil
}

func (SystemClipboard) Write(_ context.Context, text string) error {
	return clipboard.WriteAll(text)
}

func (SystemClipboard) Clear(context.Context) error {
	return clipboard.WriteAll("")
}

// CommandClipboard shells out to configured read/write/clear commands,
// e.g. wl-paste --no-newline / wl-copy / wl-copy --clear.
type CommandClipboard struct {
	ReadArgv  []string
	WriteArgv []string
	ClearArgv []string
}

func (c CommandClipboard) Read(ctx context.Context) (Snapshot, error) {
	if len(c.ReadArgv) == 0 {
		return Snapshot{}, fmt.Errorf("clipboard read command is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := runCommandOutput(ctx, c.ReadArgv)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Text: out, Present: out != ""}, nil
}

func (c CommandClipboard) Write(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return runCommandWithInput(ctx, c.WriteArgv, text)
}

func (c CommandClipboard) Clear(ctx context.Context) error {
	if len(c.ClearArgv) == 0 {
		return c.Write(ctx, "")
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return runCommandWithInput(ctx, c.ClearArgv, "")
}

// runCommandWithInput executes argv and optionally writes input to stdin.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin for %s: %w", argv[0], err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start command %s: %w", argv[0], err)
	}

	if input != "" {
		if _, err := stdin.Write([]byte(input)); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return fmt.Errorf("write stdin for %s: %w", argv[0], err)
		}
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return nil
}

// runCommandOutput executes argv and returns stdout verbatim.
func runCommandOutput(ctx context.Context, argv []string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return "", fmt.Errorf("run %s: %w (%s)", argv[0], err, detail)
		}
		return "", fmt.Errorf("run %s: %w", argv[0], err)
	}
	return stdout.String(), nil
}

package output

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rbright/transkeet/internal/config"
)

// New builds the clipboard paste sequencer selected by configuration.
func New(cfg config.Config, logger *slog.Logger) (*Sequencer, error) {
	var board Clipboard
	switch cfg.Clipboard.Backend {
	case config.ClipboardBackendSystem:
		board = SystemClipboard{}
	case config.ClipboardBackendCommand:
		board = CommandClipboard{
			ReadArgv:  cfg.Clipboard.Read.Argv,
			WriteArgv: cfg.Clipboard.Write.Argv,
			ClearArgv: cfg.Clipboard.Clear.Argv,
		}
	default:
		return nil, fmt.Errorf("unsupported clipboard.backend %q", cfg.Clipboard.Backend)
	}

	var paster Paster
	if cfg.Paste.Enable {
		switch cfg.Paste.Backend {
		case config.PasteBackendKeyboard:
			kb, err := NewKeyboardPaster()
			if err != nil {
				return nil, err
			}
			paster = kb
		case config.PasteBackendHypr:
			paster = HyprPaster{Shortcut: cfg.Paste.Shortcut}
		case config.PasteBackendCommand:
			paster = CommandPaster{Argv: cfg.Paste.Command.Argv}
		default:
			return nil, fmt.Errorf("unsupported paste.backend %q", cfg.Paste.Backend)
		}
	}

	return NewSequencer(
		board,
		paster,
		time.Duration(cfg.Paste.SettleMS)*time.Millisecond,
		time.Duration(cfg.Paste.RestoreMS)*time.Millisecond,
		logger,
	), nil
}

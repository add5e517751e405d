// Package ipc carries control commands between the CLI and the running daemon
// over a unix socket using newline-delimited JSON.
package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

const (
	CommandStatus = "status"
	CommandToggle = "toggle"
	CommandStart  = "start"
	CommandStop   = "stop"
)

// Commands lists every request the daemon accepts.
var Commands = []string{CommandStatus, CommandToggle, CommandStart, CommandStop}

type Request struct {
	Command string `json:"command"`
}

type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// IsCommand reports whether name is a known request command.
func IsCommand(name string) bool {
	for _, cmd := range Commands {
		if cmd == name {
			return true
		}
	}
	return false
}

// writeLine sends v as a single JSON line.
func writeLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// readLine decodes the next JSON line into v. what names the message in errors.
func readLine(r *bufio.Reader, what string, v any) error {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	if err := json.Unmarshal(line, v); err != nil {
		return fmt.Errorf("decode %s: %w", what, err)
	}
	return nil
}

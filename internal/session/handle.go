package session

import (
	"context"
	"fmt"

	"github.com/rbright/transkeet/internal/ipc"
)

// Handle serves IPC control commands.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	var err error
	switch req.Command {
	case ipc.CommandStatus:
		return ipc.Response{OK: true, State: string(c.State()), Message: "status"}
	case ipc.CommandToggle:
		err = c.Toggle(SourceIPC)
	case ipc.CommandStart:
		err = c.Start(SourceIPC)
	case ipc.CommandStop:
		err = c.Stop(SourceIPC)
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}

	state := c.State()
	if err != nil {
		return ipc.Response{OK: false, State: string(state), Error: err.Error()}
	}
	return ipc.Response{OK: true, State: string(state), Message: fmt.Sprintf("%s accepted", req.Command)}
}

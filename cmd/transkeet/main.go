// Package main provides the transkeet CLI process entrypoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rbright/transkeet/internal/app"
)

// The tray event loop must own the main OS thread on macOS.
func init() {
	runtime.LockOSThread()
}

// main wires process signal handling to the application runner.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode := app.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(exitCode)
}

// Package main is the entry point for the hoard build cache tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/hoard/cmd/hoard/commands"
	"go.trai.ch/hoard/internal/app"
	"go.trai.ch/hoard/internal/core/domain"
	_ "go.trai.ch/hoard/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Cancelling the context tears down any running toolchain subprocess.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrToolFailed) {
			// The toolchain already streamed its own diagnostics.
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}

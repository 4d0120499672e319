package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pacfix/pacfix/cmd/pacfix/commands"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	// Interrupting mid-resolution leaves the system no worse than the
	// failed upgrade the tool was started for; the context cancel kills
	// the in-flight package manager command.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx, Version, Commit, BuildDate); err != nil {
		// Resolution failures were already logged through the
		// configured logger; this line is for argument errors and the
		// exit code.
		fmt.Fprintf(os.Stderr, "pacfix: %v\n", err)
		os.Exit(1)
	}
}

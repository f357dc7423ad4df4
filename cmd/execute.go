package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var errUsage = errors.New("usage")

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		return 1
	}
	return 0
}

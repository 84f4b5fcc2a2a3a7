package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "loginsuite",
		Short:        "Browser login checks for web applications",
		Long:         "loginsuite drives real browsers through a login form and writes a log file, screenshots and an HTML report.",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCommand(), newServeCommand())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// Command screen runs the screening flows against a running API from a
// terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "screen",
		Short:         "CancerGuardian screening client",
		SilenceUsage: true,
	}
	opts.bind(rootCmd)

	rootCmd.AddCommand(registerCmd(opts))
	rootCmd.AddCommand(basicCmd(opts))
	rootCmd.AddCommand(advancedCmd(opts))
	rootCmd.AddCommand(chatCmd(opts))
	rootCmd.AddCommand(resultsCmd(opts))
	rootCmd.AddCommand(statusCmd(opts))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// Command autoreply answers unsolicited Telegram direct messages with a
// shuffled sequence of canned replies.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	runCmd := newRunCmd(&configPath)
	root := &cobra.Command{
		Use:           "autoreply",
		Short:         "Auto-reply to unsolicited Telegram direct messages",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCmd.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "./config.yaml", "path to the YAML configuration file")

	root.AddCommand(runCmd, newClassifyCmd(&configPath), newCheckCmd(&configPath))
	return root
}

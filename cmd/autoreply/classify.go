package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgard/autoreply/internal/config"
	"github.com/edgard/autoreply/internal/gemini"
	"github.com/edgard/autoreply/internal/guard"
	"github.com/edgard/autoreply/internal/logger"
)

func newClassifyCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text...>",
		Short: "Ask the scam classifier about a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadGemini(*configPath)
			if err != nil {
				return err
			}
			log := logger.NewLogger(logger.Options{Level: cfg.Logger.Level, Format: "text", Output: cmd.ErrOrStderr()})

			client, err := gemini.NewClient(cmd.Context(), cfg.Gemini, log)
			if err != nil {
				return err
			}
			isScam, err := client.Classify(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scammer: %t\n", isScam)
			return nil
		},
	}
}

func newCheckCmd(configPath *string) *cobra.Command {
	var sender string

	cmd := &cobra.Command{
		Use:   "check --sender <user_id> <text...>",
		Short: "Run the full autoreply decision for a message without sending anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			senderID, err := strconv.ParseInt(sender, 10, 64)
			if err != nil || senderID == 0 {
				return fmt.Errorf("invalid --sender %q", sender)
			}

			_, _, engine, err := setup(cmd.Context(), *configPath)
			if err != nil {
				return err
			}

			trigger, err := engine.ShouldAutoreply(cmd.Context(), senderID, strings.Join(args, " "), guard.New())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "autoreply: %t\n", trigger)
			return nil
		},
	}
	cmd.Flags().StringVar(&sender, "sender", "", "sender user id")
	_ = cmd.MarkFlagRequired("sender")
	return cmd
}

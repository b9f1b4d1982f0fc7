package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hupe1980/contractsmith/cmd/contractsmith/chat"
	"github.com/hupe1980/contractsmith/logging"
)

var chatID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The alternate screen owns the terminal; keep logs off it.
		a, err := newApp(cmd.Context(), cfg, logging.NoOpLogger{}, false)
		if err != nil {
			return err
		}

		id := chatID
		if id == "" {
			id = uuid.NewString()
		}

		return chat.Run(cmd.Context(), a.engine, id)
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatID, "chat", "", "Chat id (default: random)")
}

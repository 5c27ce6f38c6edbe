package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"accountd/internal/models"
	"accountd/pkg/rabbitmq"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume user lifecycle events from RabbitMQ",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := settings.GetString("RABBITMQ_URL")
		if url == "" {
			return errors.New("RABBITMQ_URL is required for the worker")
		}
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		slog.Info("waiting for user events", "queue", rabbitmq.UserEventsQueue)
		return client.ConsumeUserEvents(ctx, handleUserEvent)
	},
}

// handleUserEvent is where a mailer hooks in; today it only records the event.
func handleUserEvent(ctx context.Context, event models.UserEvent) error {
	switch event.Type {
	case models.EventUserRegistered:
		slog.Info("welcome notification due", "username", event.Username, "email", event.Email)
	default:
		slog.Info("user event", "type", event.Type, "user_id", event.UserID)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

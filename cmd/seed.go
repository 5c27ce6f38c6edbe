package cmd

import (
	"errors"
	"log/slog"

	"accountd/internal/config"
	"accountd/internal/database"
	"accountd/internal/models"
	"accountd/internal/server"

	"github.com/spf13/cobra"
)

func strPtr(s string) *string { return &s }

var seedUsers = []models.CreateUserRequest{
	{Username: "demo", Email: "demo@example.com", FullName: strPtr("Demo User"), Password: "password"},
	{Username: "alex", Email: "alex@example.com", FullName: strPtr("Alex Dev"), Password: "password"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo users, skipping any that already exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(settings)
		if err != nil {
			return err
		}
		target, err := database.ParseURL(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if err := database.MigrateUp(target); err != nil {
			return err
		}
		db, err := database.Open(cmd.Context(), target)
		if err != nil {
			return err
		}
		defer database.Close(db)

		svc, err := server.NewServices(cfg, db, nil)
		if err != nil {
			return err
		}

		for _, req := range seedUsers {
			user, err := svc.Users.Create(cmd.Context(), req)
			if errors.Is(err, models.ErrConflict) {
				slog.Info("seed user already exists", "username", req.Username)
				continue
			}
			if err != nil {
				return err
			}
			slog.Info("seeded user", "username", user.Username, "id", user.ID)
		}
		slog.Info("seed completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

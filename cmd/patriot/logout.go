package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/urmzd/patriot/pkg/db"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved Particle credentials",
	Long: `Removes the Particle username and password from ~/.patriot.yaml and from
the active profile of the hub database. The API URL and event name are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		viper.Set("user", "")
		viper.Set("password", "")
		if err := saveConfig(); err != nil {
			return fmt.Errorf("failed to save configuration file: %w", err)
		}

		database, err := db.Setup(ctx, viper.GetString("db"))
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		if err := forgetCredentials(ctx, database); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

// forgetCredentials clears the stored account of the active profile.
func forgetCredentials(ctx context.Context, database *db.DB) error {
	profile, err := database.Profiles().GetActive(ctx)
	if err != nil {
		return err
	}
	err = database.Accounts().SetCredentials(ctx, profile.ID, "", "")
	if errors.Is(err, db.ErrAccountNotFound) {
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

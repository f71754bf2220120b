package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/urmzd/patriot/pkg/cloud"
	"github.com/urmzd/patriot/pkg/db"
)

var (
	loginUser     string
	loginPassword string
	loginAPIURL   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify Particle credentials and save them",
	Long: `Logs in to the Particle cloud and, on success, saves the credentials to
~/.patriot.yaml and to the active profile of the hub database.

Example:
  patriot login -u me@example.com -p secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		apiURL := loginAPIURL
		if apiURL == "" {
			apiURL = viper.GetString("api_url")
		}
		if apiURL == "" {
			apiURL = db.DefaultAPIURL
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Logging in to %s as %s...\n", apiURL, loginUser)

		session := cloud.NewSession(cloud.NewParticleClient(apiURL))
		if err := session.Login(ctx, loginUser, loginPassword); err != nil {
			return err
		}

		viper.Set("user", loginUser)
		viper.Set("password", loginPassword)
		viper.Set("api_url", apiURL)
		if err := saveConfig(); err != nil {
			return fmt.Errorf("failed to save configuration file: %w", err)
		}

		database, err := db.Setup(ctx, viper.GetString("db"))
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		cfg, err := database.ActiveConfig(ctx)
		if err != nil {
			return err
		}
		account := cfg.Account
		if account == nil {
			account = &db.Account{ProfileID: cfg.Profile.ID}
		}
		account.Username = loginUser
		account.Password = loginPassword
		account.APIURL = apiURL
		if err := database.Accounts().Save(ctx, account); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Login successful.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "Particle username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Particle password")
	loginCmd.Flags().StringVar(&loginAPIURL, "api-url", "", "Particle API URL")

	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/urmzd/patriot/pkg/db"
	"github.com/urmzd/patriot/pkg/hub"
	"github.com/urmzd/patriot/pkg/logger"
)

var (
	cfgFile    string
	jsonOutput bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "patriot",
	Short: "Control Particle Photon activities from the command line",
	Long: `Discover the Photon controllers on a Particle account, list their
activities and send activity commands.

Credentials are read from ~/.patriot.yaml, PATRIOT_* environment variables
or the hub database, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logCfg := logger.DefaultConfig()
		logCfg.Level = viper.GetString("log_level")
		logCfg.Debug = debug
		return logger.Init(logCfg)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { initConfig(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.patriot.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("db", "", "Path to database file (default: ~/.config/patriot/patriot.db)")
	rootCmd.PersistentFlags().String("event", "", "Event name commands are published on")

	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("event_name", rootCmd.PersistentFlags().Lookup("event"))
	viper.SetDefault("log_level", "warn")
}

// initConfig reads the config file and PATRIOT_* environment variables.
func initConfig(path string) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".patriot")
	}

	viper.SetEnvPrefix("patriot")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Debug().Err(err).Msg("Config file not read")
		}
	}
}

// saveConfig writes the current viper settings, creating ~/.patriot.yaml when needed.
func saveConfig() error {
	if err := viper.WriteConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return viper.SafeWriteConfig()
		}
		home, herr := os.UserHomeDir()
		if herr != nil {
			return err
		}
		return viper.WriteConfigAs(filepath.Join(home, ".patriot.yaml"))
	}
	return nil
}

// loadOptions merges the hub database with viper settings. Viper wins.
func loadOptions(ctx context.Context) (hub.Options, error) {
	database, err := db.Setup(ctx, viper.GetString("db"))
	if err != nil {
		return hub.Options{}, err
	}
	defer func() { _ = database.Close() }()

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		return hub.Options{}, err
	}

	opts := hub.OptionsFromConfig(cfg, viper.GetString("user"), viper.GetString("password"))
	if v := viper.GetString("api_url"); v != "" {
		opts.APIURL = v
	}
	if v := viper.GetString("event_name"); v != "" {
		opts.EventName = v
	}
	return opts, nil
}

// startHub logs in and runs discovery.
func startHub(ctx context.Context) (*hub.Hub, error) {
	opts, err := loadOptions(ctx)
	if err != nil {
		return nil, err
	}
	if opts.User == "" || opts.Password == "" {
		return nil, fmt.Errorf("not logged in, run 'patriot login' first")
	}

	h := hub.New(opts)
	if err := h.Start(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/hub"
	"github.com/urmzd/patriot/pkg/photon"
)

var sendCmd = &cobra.Command{
	Use:   "send <activity> <percent>",
	Short: "Send an activity command",
	Example: `  patriot send led 100
  patriot send fan 0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])
		percent, err := parsePercent(args[1])
		if err != nil {
			return err
		}

		opts, err := loadOptions(cmd.Context())
		if err != nil {
			return err
		}

		h := hub.New(opts)
		if err := h.Manager.Login(cmd.Context(), opts.User, opts.Password); err != nil {
			return err
		}

		command := name
		if c, ok := activity.CommandMap(opts.Commands).ResolveCommand(name); ok {
			command = c
		}

		h.Manager.SendCommand(command, percent)
		h.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Sent %s on %s\n", photon.FormatCommand(command, percent), h.Manager.EventName())
		return nil
	},
}

func parsePercent(s string) (int, error) {
	percent, err := cast.ToIntE(s)
	if err != nil {
		return 0, fmt.Errorf("percent must be a number: %q", s)
	}
	if percent < 0 || percent > 100 {
		return 0, activity.ErrInvalidPercent
	}
	return percent, nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/urmzd/patriot/pkg/photon"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print fleet events as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		h, err := startHub(ctx)
		if err != nil {
			return err
		}
		defer h.Close()

		events := h.Bus.Subscribe()
		defer h.Bus.Unsubscribe(events)

		out := cmd.OutOrStdout()
		for {
			select {
			case <-ctx.Done():
				return nil
			case evt := <-events:
				if jsonOutput {
					if err := writeJSON(out, evt); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintln(out, formatEvent(evt))
			}
		}
	},
}

func formatEvent(evt photon.Event) string {
	ts := evt.Timestamp.Format("15:04:05")
	switch evt.Type {
	case photon.EventActivityChanged:
		percent := 0
		if evt.Percent != nil {
			percent = *evt.Percent
		}
		return fmt.Sprintf("%s %s %s=%d", ts, evt.Type, evt.Name, percent)
	case photon.EventSupportedChanged:
		return fmt.Sprintf("%s %s %s", ts, evt.Type, strings.Join(evt.Names, ","))
	default:
		return fmt.Sprintf("%s %s %s", ts, evt.Type, evt.Name)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

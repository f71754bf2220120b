package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/urmzd/patriot/pkg/api/handlers"
	"github.com/urmzd/patriot/pkg/api/types"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the connected Photons",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := startHub(cmd.Context())
		if err != nil {
			return err
		}
		defer h.Close()

		photons := h.Manager.Photons()
		out := make([]types.Photon, 0, len(photons))
		for _, p := range photons {
			out = append(out, handlers.ToPhoton(p))
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), out)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tSTATE\tDEVICES\tSUPPORTED\tPUBLISH")
		for _, p := range out {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				p.Name, p.State,
				strings.Join(p.Devices, ","),
				strings.Join(p.Supported, ","),
				p.PublishName,
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

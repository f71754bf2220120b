package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/urmzd/patriot/pkg/activity"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List activities and their levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := startHub(cmd.Context())
		if err != nil {
			return err
		}
		defer h.Close()

		activities := h.Store.Activities()
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), activities)
		}
		return writeActivities(cmd.OutOrStdout(), activities)
	},
}

func writeActivities(out io.Writer, activities []activity.Activity) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tCOMMAND\tPERCENT")
	for i, a := range activities {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i, a.Name, a.Command, a.Percent)
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(activitiesCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/stats"
)

func newActionsCmd() *cobra.Command {
	var position string

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the stat actions a proposition can name",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if position == "" {
				for _, p := range models.AllPositions() {
					fmt.Fprintf(out, "%s:\n", p)
					for _, action := range stats.ActionsFor(p) {
						fmt.Fprintf(out, "  %s\n", action)
					}
				}
				return nil
			}

			p, err := stats.ParsePosition(position)
			if err != nil {
				return err
			}
			for _, action := range stats.ActionsFor(p) {
				fmt.Fprintln(out, action)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&position, "position", "", "Only list actions for this position")

	return cmd
}

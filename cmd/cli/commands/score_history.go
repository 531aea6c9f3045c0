package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitduty/dutyroster/pkg/core/services"
)

// ScoreHistoryCmd creates the scoreHistory command
func ScoreHistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scoreHistory <personnel_id>",
		Short: "Show a person's duty score events, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := services.GetScoreHistory(app.Ctx, app.Store, app.Logger, args[0])
			if err != nil {
				return err
			}

			if len(events) == 0 {
				fmt.Printf("\nNo score events for %s\n\n", args[0])
				return nil
			}

			fmt.Printf("\nScore history for %s:\n", args[0])
			for _, e := range events {
				source := "-"
				if e.DutySlotID != nil {
					source = "slot " + *e.DutySlotID
				} else if e.SupernumeraryID != nil {
					source = "standby " + *e.SupernumeraryID
				}
				fmt.Printf("  %s  %8s pts  %-20s %s\n",
					e.EventDate, e.Points.String(), e.Reason, source)
			}
			fmt.Println()
			return nil
		},
	}
}

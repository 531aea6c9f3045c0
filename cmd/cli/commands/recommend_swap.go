package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitduty/dutyroster/pkg/core/services"
)

// RecommendSwapCmd creates the recommendSwap command
func RecommendSwapCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommendSwap <pair_id> <recommender_id> <for|against>",
		Short: "Record a non-blocking recommendation on a swap",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, _ := cmd.Flags().GetString("comment")

			var supportive bool
			switch args[2] {
			case "for":
				supportive = true
			case "against":
				supportive = false
			default:
				return fmt.Errorf("recommendation must be for or against, got %q", args[2])
			}

			if err := services.AddRecommendation(app.Ctx, app.Store, app.Logger, args[0], args[1], supportive, comment); err != nil {
				return err
			}

			fmt.Printf("\n✓ Recommendation recorded for pair %s\n\n", args[0])
			return nil
		},
	}

	cmd.Flags().String("comment", "", "Comment to record with the recommendation")

	return cmd
}

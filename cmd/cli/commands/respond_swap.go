package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitduty/dutyroster/pkg/core/services"
)

// RespondSwapCmd creates the respondSwap command
func RespondSwapCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "respondSwap <pair_id> <personnel_id> <accept|decline>",
		Short: "Record the partner's response to a pending swap",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var accept bool
			switch args[2] {
			case "accept":
				accept = true
			case "decline":
				accept = false
			default:
				return fmt.Errorf("response must be accept or decline, got %q", args[2])
			}

			view, err := services.RespondToSwap(app.Ctx, app.Store, app.Logger, args[0], args[1], accept)
			if err != nil {
				return err
			}

			printSwapView(view)
			return nil
		},
	}
}

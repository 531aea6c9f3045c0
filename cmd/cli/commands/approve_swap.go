package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitduty/dutyroster/pkg/core/services"
)

// ApproveSwapCmd creates the approveSwap command
func ApproveSwapCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approveSwap <pair_id> <approval_id> <approve|reject> <decided_by>",
		Short: "Record one approval chain decision on a swap",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, _ := cmd.Flags().GetString("comment")

			var approve bool
			switch args[2] {
			case "approve":
				approve = true
			case "reject":
				approve = false
			default:
				return fmt.Errorf("decision must be approve or reject, got %q", args[2])
			}

			view, err := services.DecideApproval(app.Ctx, app.Store, app.Logger, args[0], args[1], approve, args[3], comment)
			if err != nil {
				return err
			}

			printSwapView(view)
			return nil
		},
	}

	cmd.Flags().String("comment", "", "Comment to record with the decision")

	return cmd
}

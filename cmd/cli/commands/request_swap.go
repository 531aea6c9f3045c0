package commands

import (
	"github.com/spf13/cobra"

	"github.com/unitduty/dutyroster/pkg/core/services"
)

// RequestSwapCmd creates the requestSwap command
func RequestSwapCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requestSwap <requester_slot_id> <partner_slot_id>",
		Short: "Request a duty exchange between the owners of two slots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reason, _ := cmd.Flags().GetString("reason")

			view, err := services.RequestSwap(app.Ctx, app.Store, app.Cfg, app.Logger, services.SwapRequestInput{
				RequesterSlotID: args[0],
				PartnerSlotID:   args[1],
				Reason:          reason,
			})
			if err != nil {
				return err
			}

			printSwapView(view)
			return nil
		},
	}

	cmd.Flags().String("reason", "", "Reason for the swap request")

	return cmd
}

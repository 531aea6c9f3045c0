package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitduty/dutyroster/pkg/core/services"
	"github.com/unitduty/dutyroster/pkg/core/swap"
)

// ViewSwapCmd creates the viewSwap command
func ViewSwapCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewSwap <pair_id>",
		Short: "Show a swap pair and its approval state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := services.GetSwap(app.Ctx, app.Store, args[0])
			if err != nil {
				return err
			}

			printSwapView(view)
			return nil
		},
	}
}

func printSwapView(view *services.SwapView) {
	fmt.Printf("\nSwap pair %s\n", view.PairID)
	fmt.Printf("Status: %s\n", view.Status)
	if view.ReadyToExecute {
		fmt.Println("All approvals granted.")
	}
	fmt.Println()

	printSwapSide("Requester", view.Requester)
	printSwapSide("Partner", view.Partner)

	if len(view.Recommendations) > 0 {
		fmt.Printf("Recommendations:\n")
		for _, r := range view.Recommendations {
			stance := "for"
			if !r.Supportive {
				stance = "against"
			}
			fmt.Printf("  %s (%s)", r.RecommenderID, stance)
			if r.Comment != "" {
				fmt.Printf(": %s", r.Comment)
			}
			fmt.Println()
		}
		fmt.Println()
	}
}

func printSwapSide(label string, row *swap.ChangeRequest) {
	fmt.Printf("%s %s\n", label, row.PersonnelID)
	fmt.Printf("  Giving slot:    %s\n", row.GivingSlotID)
	fmt.Printf("  Receiving slot: %s\n", row.ReceivingSlotID)
	fmt.Printf("  Accepted:       %t\n", row.PartnerAccepted)
	fmt.Printf("  Status:         %s\n", row.Status)
	for _, a := range row.Approvals {
		gate := "approver"
		if !a.IsApprover {
			gate = "reviewer"
		}
		line := fmt.Sprintf("  %2d. %-20s %-9s %s", a.Order, a.Role, gate, a.Status)
		if a.DecidedBy != "" {
			line += fmt.Sprintf(" by %s", a.DecidedBy)
		}
		if a.Comment != "" {
			line += fmt.Sprintf(" (%s)", a.Comment)
		}
		fmt.Println(line)
	}
	fmt.Println()
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/unitduty/dutyroster/pkg/core/services"
)

// GenerateScheduleCmd creates the generateSchedule command
func GenerateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSchedule <unit_id> <start_date> <end_date>",
		Short: "Plan and immediately save a fair duty schedule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clearExisting, _ := cmd.Flags().GetBool("clear-existing")
			assignedBy, _ := cmd.Flags().GetString("assigned-by")

			result, err := services.GenerateSchedule(app.Ctx, app.Store, app.Cfg, app.Logger, services.ScheduleRequest{
				UnitID:        args[0],
				StartDate:     args[1],
				EndDate:       args[2],
				AssignedBy:    assignedBy,
				ClearExisting: clearExisting,
			})
			if err != nil {
				return err
			}

			printScheduleResult(result)
			return nil
		},
	}

	cmd.Flags().Bool("clear-existing", false, "Delete existing scheduled slots in the range before saving")
	cmd.Flags().String("assigned-by", "", "ID of the person running the scheduling pass")

	return cmd
}

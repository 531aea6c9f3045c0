package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unitduty/dutyroster/pkg/core/scheduler"
	"github.com/unitduty/dutyroster/pkg/core/services"
)

// ApplyScheduleCmd creates the applySchedule command
func ApplyScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applySchedule <unit_id> <start_date> <end_date> <preview_file>",
		Short: "Save a previously previewed schedule exactly as reviewed",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clearExisting, _ := cmd.Flags().GetBool("clear-existing")

			data, err := os.ReadFile(args[3])
			if err != nil {
				return fmt.Errorf("failed to read preview file: %w", err)
			}
			var slots []scheduler.PlannedSlot
			if err := json.Unmarshal(data, &slots); err != nil {
				return fmt.Errorf("failed to decode preview file: %w", err)
			}

			result, err := services.ApplyPreviewedSlots(app.Ctx, app.Store, app.Logger, slots, services.ScheduleRequest{
				UnitID:        args[0],
				StartDate:     args[1],
				EndDate:       args[2],
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

	return cmd
}

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unitduty/dutyroster/pkg/core/services"
)

// PreviewScheduleCmd creates the previewSchedule command
func PreviewScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "previewSchedule <unit_id> <start_date> <end_date>",
		Short: "Preview a fair duty schedule without saving it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clearExisting, _ := cmd.Flags().GetBool("clear-existing")
			outFile, _ := cmd.Flags().GetString("out")

			result, err := services.PreviewSchedule(app.Ctx, app.Store, app.Cfg, app.Logger, services.ScheduleRequest{
				UnitID:        args[0],
				StartDate:     args[1],
				EndDate:       args[2],
				ClearExisting: clearExisting,
			})
			if err != nil {
				return err
			}

			printScheduleResult(result)

			if outFile != "" {
				data, err := json.MarshalIndent(result.Slots, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode preview: %w", err)
				}
				if err := os.WriteFile(outFile, data, 0o644); err != nil {
					return fmt.Errorf("failed to write preview file: %w", err)
				}
				fmt.Printf("Preview written to %s (apply it with applySchedule)\n\n", outFile)
			}

			return nil
		},
	}

	cmd.Flags().Bool("clear-existing", false, "Plan as if existing scheduled slots in the range were cleared")
	cmd.Flags().String("out", "", "Write the previewed slots to a JSON file for later apply")

	return cmd
}

func printScheduleResult(result *services.ScheduleResult) {
	label := "Schedule generated"
	if result.Preview {
		label = "Schedule preview"
	}
	fmt.Printf("\n✓ %s\n\n", label)
	fmt.Printf("Slots created: %d\n", result.SlotsCreated)
	fmt.Printf("Slots skipped: %d\n\n", result.SlotsSkipped)

	if len(result.Slots) > 0 {
		fmt.Println("Assignments:")
		for _, slot := range result.Slots {
			fmt.Printf("  %s  %-20s %-12s %s pts\n", slot.Date, slot.DutyTypeID, slot.PersonnelID, slot.Points.String())
		}
		fmt.Println()
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("⚠️  %d warnings:\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	if len(result.Errors) > 0 {
		fmt.Printf("✗ %d errors:\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
		fmt.Println()
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitduty/dutyroster/pkg/core/services"
)

// PreviewSupernumeraryCmd creates the previewSupernumerary command
func PreviewSupernumeraryCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "previewSupernumerary <unit_id> <start_date> <end_date>",
		Short: "Preview standby coverage periods without saving them",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			apply, _ := cmd.Flags().GetBool("apply")
			clearExisting, _ := cmd.Flags().GetBool("clear-existing")

			result, err := services.PreviewSupernumeraryAssignments(
				app.Ctx, app.Store, app.Cfg, app.Logger, args[0], "", args[1], args[2])
			if err != nil {
				return err
			}

			if apply {
				result, err = services.ApplySupernumeraryAssignments(
					app.Ctx, app.Store, app.Logger, result.Assignments, clearExisting, args[1], args[2], args[0])
				if err != nil {
					return err
				}
			}

			label := "Standby coverage preview"
			if !result.Preview {
				label = "Standby coverage saved"
			}
			fmt.Printf("\n✓ %s\n\n", label)

			if len(result.Assignments) > 0 {
				fmt.Println("Coverage periods:")
				for _, a := range result.Assignments {
					fmt.Printf("  %s to %s  %-20s %-12s %s pts\n",
						a.PeriodStart, a.PeriodEnd, a.DutyTypeID, a.PersonnelID, a.Points.String())
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

			return nil
		},
	}

	cmd.Flags().Bool("apply", false, "Save the previewed coverage instead of just printing it")
	cmd.Flags().Bool("clear-existing", false, "Delete existing coverage in the range before saving")

	return cmd
}

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/unitduty/dutyroster/pkg/core/services"
)

// SeedCmd creates the seed command
func SeedCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <roster_file>",
		Short: "Load units, personnel, and duty types from a YAML roster file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read roster file: %w", err)
			}

			var seed services.RosterSeed
			if err := yaml.Unmarshal(data, &seed); err != nil {
				return fmt.Errorf("failed to parse roster file: %w", err)
			}

			result, err := services.SeedRoster(app.Ctx, app.Store, app.Logger, seed)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster seeded: %d units, %d personnel, %d duty types\n\n",
				result.Units, result.Personnel, result.DutyTypes)
			return nil
		},
	}
}

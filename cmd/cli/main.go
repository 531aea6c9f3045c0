package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unitduty/dutyroster/cmd/cli/commands"
	"github.com/unitduty/dutyroster/internal/config"
	"github.com/unitduty/dutyroster/pkg/postgres"
	"github.com/unitduty/dutyroster/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dutyroster",
		Short: "Duty Roster CLI - Fair duty scheduling and swap management",
		Long:  `A CLI tool for planning fair duty schedules, standby coverage, and managing duty swap requests.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
			if app != nil && app.Store != nil {
				app.Store.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	app = &commands.AppContext{}

	rootCmd.AddCommand(commands.PreviewScheduleCmd(app))
	rootCmd.AddCommand(commands.GenerateScheduleCmd(app))
	rootCmd.AddCommand(commands.ApplyScheduleCmd(app))
	rootCmd.AddCommand(commands.PreviewSupernumeraryCmd(app))
	rootCmd.AddCommand(commands.RequestSwapCmd(app))
	rootCmd.AddCommand(commands.RespondSwapCmd(app))
	rootCmd.AddCommand(commands.ApproveSwapCmd(app))
	rootCmd.AddCommand(commands.RecommendSwapCmd(app))
	rootCmd.AddCommand(commands.ViewSwapCmd(app))
	rootCmd.AddCommand(commands.SeedCmd(app))
	rootCmd.AddCommand(commands.ScoreHistoryCmd(app))
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and database
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Logger.Info("Connecting to database")
	app.Store, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Logger.Debug("Database connection established")

	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.RunMigrations(app.Ctx); err != nil {
				return err
			}
			fmt.Println("\n✓ Migrations applied")
			return nil
		},
	}
}

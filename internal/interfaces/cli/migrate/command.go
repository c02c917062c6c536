// Package migrate implements database migration commands.
package migrate

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"storepay/internal/infrastructure/config"
	"storepay/internal/infrastructure/database"
	"storepay/internal/infrastructure/migration"
	"storepay/internal/shared/logger"
)

var env string

const scriptsRelPath = "./internal/infrastructure/migration/scripts"

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(newUpCommand())
	cmd.AddCommand(newDownCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newForceCommand())

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := initStrategy()
			if err != nil {
				return err
			}
			defer database.Close()

			return strategy.Migrate(database.Get())
		},
	}
}

func newDownCommand() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := initStrategy()
			if err != nil {
				return err
			}
			defer database.Close()

			return strategy.MigrateDown(database.Get(), steps)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "s", 1, "Number of migrations to roll back")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := initStrategy()
			if err != nil {
				return err
			}
			defer database.Close()

			version, dirty, err := strategy.GetVersion(database.Get())
			if err != nil {
				return fmt.Errorf("failed to get migration version: %w", err)
			}

			fmt.Printf("version: %d\ndirty: %v\n", version, dirty)
			return nil
		},
	}
}

func newForceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "force [version]",
		Short: "Force the migration version and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}

			strategy, err := initStrategy()
			if err != nil {
				return err
			}
			defer database.Close()

			return strategy.Force(database.Get(), version)
		},
	}
}

// initStrategy loads config, connects to the database, and returns the
// SQL-script strategy. The development automigrate path is only taken by the
// server on boot, never by these commands.
func initStrategy() (*migration.GolangMigrateStrategy, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	scriptsPath, err := filepath.Abs(scriptsRelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scripts path: %w", err)
	}

	return migration.NewGolangMigrateStrategy(scriptsPath), nil
}

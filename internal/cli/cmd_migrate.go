package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"socialnet/internal/config"
	"socialnet/internal/database"

	"github.com/spf13/cobra"
)

var errSQLMigrationsNeedPostgres = errors.New("sql migrations are written for postgres; use `migrate auto` with sqlite")

func newMigrateCommand(out io.Writer, rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run schema operations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending SQL migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return rt.run(cmd, false, func() error {
					if rt.cfg.DBDriver == config.DriverSQLite {
						return usageError(errSQLMigrationsNeedPostgres)
					}
					if err := database.RunMigrations(cmd.Context(), rt.db); err != nil {
						return fmt.Errorf("sql migrations failed: %w", err)
					}
					_, err := fmt.Fprintln(out, "sql migrations applied")
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "down <version>",
			Short: "Roll back one applied SQL migration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return usageError(fmt.Errorf("invalid version %q: %w", args[0], err))
				}
				return rt.run(cmd, false, func() error {
					if rt.cfg.DBDriver == config.DriverSQLite {
						return usageError(errSQLMigrationsNeedPostgres)
					}
					if err := database.RollbackMigration(cmd.Context(), rt.db, version); err != nil {
						return fmt.Errorf("rollback failed: %w", err)
					}
					_, err := fmt.Fprintf(out, "rolled back migration %d\n", version)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show schema mode and migration state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return rt.run(cmd, false, func() error {
					status, err := database.GetSchemaStatus(cmd.Context(), rt.db, rt.cfg)
					if err != nil {
						return fmt.Errorf("schema status failed: %w", err)
					}
					fmt.Fprintf(out, "mode=%s env=%s driver=%s run_sql=%t run_auto=%t applied=%d pending=%d\n",
						status.Mode, status.Environment, status.Driver, status.WillRunSQL, status.WillRunAutoMigrate,
						len(status.AppliedVersions), len(status.PendingMigrations))
					for _, m := range status.PendingMigrations {
						fmt.Fprintf(out, "pending: %s\n", m.String())
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "auto",
			Short: "Run GORM AutoMigrate over every model",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return rt.run(cmd, false, func() error {
					rt.cfg.DBSchemaMode = database.SchemaModeAuto
					if err := database.ApplySchema(cmd.Context(), rt.db, rt.cfg); err != nil {
						return fmt.Errorf("auto schema apply failed: %w", err)
					}
					_, err := fmt.Fprintln(out, "automigrations applied")
					return err
				})
			},
		},
	)
	return cmd
}

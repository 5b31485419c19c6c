package commands

import (
	"fmt"

	"github.com/de-tools/usage-report/pkg/services/calendar"
	"github.com/de-tools/usage-report/pkg/store/duckdb"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultSeedPath = "usage-report.db"

type SeedCmd struct {
	globals *Globals
	dbPath  string
}

func NewSeedCmd(globals *Globals) *cobra.Command {
	sc := &SeedCmd{globals: globals}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a local DuckDB warehouse with sample activity for every reporting window",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.dbPath, "db", "", "Path of the DuckDB file (default warehouse.dsn, or usage-report.db)")

	return cmd
}

func (sc *SeedCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cfg, err := sc.globals.Load(cmd.Context())
	if err != nil {
		return err
	}
	logger := zerolog.Ctx(ctx)

	today, err := sc.globals.Today()
	if err != nil {
		return err
	}
	windows := calendar.SetupWindows(today)
	first, last := windows[len(windows)-1].Start, windows[0].End

	path := sc.dbPath
	if path == "" && cfg.Warehouse.Driver == "duckdb" {
		path = cfg.Warehouse.DSN
	}
	if path == "" {
		path = defaultSeedPath
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: path})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close local warehouse")
		}
	}()

	stats, err := duckdb.Seed(ctx, db, duckdb.SeedSettings{
		Start: first,
		Days:  int(last.Sub(first).Hours() / 24),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s with %d results and %d online sessions from %s to %s\n",
		path, stats.Results, stats.Sessions, first.Format("2006-01-02"), last.Format("2006-01-02"))
	return nil
}

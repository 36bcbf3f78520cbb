package main

import (
	"github.com/spf13/cobra"

	"github.com/vaibhaw-/omopgen/internal/omopgen/config"
	"github.com/vaibhaw-/omopgen/internal/omopgen/dbload"
	"github.com/vaibhaw-/omopgen/internal/omopgen/export"
	"github.com/vaibhaw-/omopgen/internal/omopgen/runner"
)

var (
	loadFlagDir          string
	loadFlagCreateSchema bool
	loadFlagHost         string
	loadFlagPort         int
	loadFlagUser         string
	loadFlagPassword     string
	loadFlagDatabase     string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load exported CSV files into PostgreSQL or MySQL",
	Long: `Load reads the five CSV files of an export directory and inserts them
into a live database, parents first, one transaction per table.
PostgreSQL uses COPY; MySQL uses prepared INSERTs.

Connection: --dsn (or database.dsn), or --host/--port/--user/--password/--database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		dir := loadFlagDir
		if dir == "" {
			dir = cfg.Output.Dir
		}
		if cfg.Database.DSN == "" && loadFlagDatabase != "" {
			d, err := export.ParseDialect(cfg.Database.Driver)
			if err != nil {
				return err
			}
			cfg.Database.DSN = dbload.BuildDSN(d, loadFlagUser, loadFlagPassword, loadFlagHost, loadFlagPort, loadFlagDatabase)
		}
		return runner.RunLoad(cmd.Context(), cfg, runner.LoadArgs{Dir: dir, CreateSchema: loadFlagCreateSchema}, cmd.OutOrStdout())
	},
}

func init() {
	fs := loadCmd.Flags()
	fs.StringVar(&loadFlagDir, "dir", "", "export directory (default output.dir)")
	fs.BoolVar(&loadFlagCreateSchema, "create-schema", false, "drop and create the CDM tables before loading")
	fs.String("driver", "postgres", "database driver: postgres|mysql")
	fs.String("dsn", "", "database DSN")
	fs.Duration("timeout", dbload.DefaultTimeout, "per-table transaction timeout")
	fs.StringVar(&loadFlagHost, "host", "127.0.0.1", "database host (when --dsn is not set)")
	fs.IntVar(&loadFlagPort, "port", 0, "database port (default 5432 or 3306)")
	fs.StringVar(&loadFlagUser, "user", "", "database user")
	fs.StringVar(&loadFlagPassword, "password", "", "database password")
	fs.StringVar(&loadFlagDatabase, "database", "", "database name")
}

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/config"
	"github.com/vaibhaw-/omopgen/internal/omopgen/dbload"
	"github.com/vaibhaw-/omopgen/internal/omopgen/export"
	"github.com/vaibhaw-/omopgen/internal/omopgen/runlog"
)

// ErrNoDSN is returned when no database DSN is configured.
var ErrNoDSN = errors.New("database.dsn is not set")

// LoadArgs identifies the export to load and the target schema handling.
type LoadArgs struct {
	Dir          string
	CreateSchema bool
}

// RunLoad loads an export directory into the database configured in
// cfg.Database.
func RunLoad(ctx context.Context, cfg *config.Config, args LoadArgs, out io.Writer) error {
	start := time.Now().UTC()
	summary := runlog.Summary{Phase: "load", Output: args.Dir, StartTime: start.Format(time.RFC3339)}

	err := func() error {
		d, err := export.ParseDialect(cfg.Database.Driver)
		if err != nil {
			return err
		}
		if cfg.Database.DSN == "" {
			return ErrNoDSN
		}
		res, err := dbload.Load(ctx, dbload.Options{
			Dialect:      d,
			DSN:          cfg.Database.DSN,
			Dir:          args.Dir,
			Timeout:      cfg.Database.Timeout,
			CreateSchema: args.CreateSchema,
		})
		summary.Rows = res
		if err != nil {
			return err
		}
		for _, t := range cdm.TableOrder {
			fmt.Fprintf(out, "%-22s %8d rows loaded\n", t, res[t])
		}
		return nil
	}()
	finish(cfg, &summary, start, err)
	return err
}

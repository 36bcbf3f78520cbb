package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/config"
	"github.com/vaibhaw-/omopgen/internal/omopgen/export"
	"github.com/vaibhaw-/omopgen/internal/omopgen/generate"
	"github.com/vaibhaw-/omopgen/internal/omopgen/logger"
	"github.com/vaibhaw-/omopgen/internal/omopgen/manifest"
	"github.com/vaibhaw-/omopgen/internal/omopgen/runlog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/sampler"
)

// Output formats.
const (
	FormatCSV = "csv"
	FormatSQL = "sql"
)

// GenerateArgs holds per-invocation switches not kept in config.
type GenerateArgs struct {
	Summary bool      // print Stats to Out
	Now     time.Time // fixes the birth-year reference; zero means now
}

// RunGenerate generates a dataset from cfg and exports it to
// cfg.Output.Dir. It is factored out from the Cobra command so it can be
// unit tested.
func RunGenerate(ctx context.Context, cfg *config.Config, args GenerateArgs, out io.Writer) (*generate.Stats, error) {
	start := time.Now().UTC()

	summary := runlog.Summary{
		Phase:     "generate",
		Output:    cfg.Output.Dir,
		Format:    cfg.Output.Format,
		StartTime: start.Format(time.RFC3339),
	}
	st, err := runGenerate(ctx, cfg, args, out, &summary)
	finish(cfg, &summary, start, err)
	return st, err
}

func runGenerate(ctx context.Context, cfg *config.Config, args GenerateArgs, out io.Writer, summary *runlog.Summary) (*generate.Stats, error) {
	log := logger.L()

	opts, err := cfg.GenerateOptions()
	if err != nil {
		return nil, err
	}
	opts.Now = args.Now

	var dialect export.Dialect
	switch cfg.Output.Format {
	case FormatCSV:
	case FormatSQL:
		if dialect, err = export.ParseDialect(cfg.Output.Dialect); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown output format %q (want csv or sql)", cfg.Output.Format)
	}
	// fail before generating anything
	if err := export.CheckDir(cfg.Output.Dir); err != nil {
		return nil, err
	}

	cat, err := catalog.LoadFile(cfg.Generation.CatalogFile)
	if err != nil {
		return nil, err
	}
	s := sampler.New(cfg.Generation.Seed)
	summary.Seed = s.Seed()

	ds, err := generate.Run(ctx, s, cat, opts)
	if err != nil {
		return nil, err
	}
	st := generate.NewStats(ds, cat)
	summary.Rows = st.Rows
	summary.Stats = st.SummaryMap()

	switch cfg.Output.Format {
	case FormatSQL:
		if _, err := export.WriteSQLFile(cfg.Output.Dir, dialect, ds.Tables()); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "SQL script written: %s/%s\n", cfg.Output.Dir, export.SQLName)
	default:
		files, err := export.WriteCSVFiles(cfg.Output.Dir, ds.Tables())
		if err != nil {
			return nil, err
		}
		m, err := manifest.Build(cfg.Output.Dir, ds.Seed, files, time.Now())
		if err != nil {
			return nil, err
		}
		if err := manifest.Write(cfg.Output.Dir, m); err != nil {
			return nil, err
		}
		summary.RunID = m.RunID
		log.Infow("manifest written", "run_id", m.RunID)
		fmt.Fprintf(out, "Exported %d tables to %s (seed %d)\n", len(files), cfg.Output.Dir, ds.Seed)
	}

	if args.Summary {
		st.PrintSummary(out)
	}
	return st, nil
}

// finish stamps the summary and appends it to the configured run log.
func finish(cfg *config.Config, summary *runlog.Summary, start time.Time, err error) {
	log := logger.L()
	end := time.Now().UTC()
	summary.EndTime = end.Format(time.RFC3339)
	summary.DurationMs = float64(end.Sub(start).Microseconds()) / 1000
	summary.Status = "ok"
	if err != nil {
		summary.Status = "error"
		summary.Error = err.Error()
	}
	if cfg.Logging.RunLog == "" {
		return
	}
	if werr := runlog.Append(cfg.Logging.RunLog, *summary); werr != nil {
		log.Errorw("failed to write run log", "path", cfg.Logging.RunLog, "err", werr.Error())
		return
	}
	log.Debugw("wrote run summary", "path", cfg.Logging.RunLog)
}

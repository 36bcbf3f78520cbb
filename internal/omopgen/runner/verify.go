package runner

import (
	"fmt"
	"io"
	"time"

	"github.com/vaibhaw-/omopgen/internal/omopgen/config"
	"github.com/vaibhaw-/omopgen/internal/omopgen/logger"
	"github.com/vaibhaw-/omopgen/internal/omopgen/manifest"
	"github.com/vaibhaw-/omopgen/internal/omopgen/runlog"
)

// RunVerify checks an export directory against its manifest and prints
// one line per table.
func RunVerify(cfg *config.Config, dir string, out io.Writer) error {
	log := logger.L()
	start := time.Now().UTC()
	summary := runlog.Summary{Phase: "verify", Output: dir, StartTime: start.Format(time.RFC3339)}
	log.Infow("verify start", "dir", dir)

	m, bad, err := manifest.Verify(dir)
	if m != nil {
		summary.RunID = m.RunID
		summary.Seed = m.Seed
		failed := map[string]bool{}
		for _, b := range bad {
			failed[b.File] = true
			summary.Mismatches = append(summary.Mismatches, b.File)
		}
		for _, e := range m.Tables {
			status := "ok"
			if failed[e.File] {
				status = "MISMATCH"
			}
			fmt.Fprintf(out, "%-26s %8d rows  %s\n", e.File, e.Rows, status)
		}
	}
	finish(cfg, &summary, start, err)
	log.Infow("verify end", "status", summary.Status, "mismatches", len(bad))
	return err
}

package runlog

import (
	"bufio"
	"encoding/json"
	"os"
)

// Summary is appended to the run log once per command.
type Summary struct {
	Phase      string         `json:"phase"` // generate, verify or load
	RunID      string         `json:"run_id,omitempty"`
	Seed       uint64         `json:"seed,omitempty"`
	Output     string         `json:"output,omitempty"`
	Format     string         `json:"format,omitempty"`
	Rows       map[string]int `json:"rows,omitempty"`
	Stats      map[string]any `json:"stats,omitempty"`
	Status     string         `json:"status"`
	Error      string         `json:"error,omitempty"`
	StartTime  string         `json:"start_time"` // RFC3339
	EndTime    string         `json:"end_time"`   // RFC3339
	DurationMs float64        `json:"duration_ms"`
	Mismatches []string       `json:"mismatches,omitempty"`
}

// Append writes s as one JSON line to path, creating the file if needed.
// An empty path is a no-op.
func Append(path string, s Summary) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := json.NewEncoder(w).Encode(s); err != nil {
		return err
	}
	return w.Flush()
}

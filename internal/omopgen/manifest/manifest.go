package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vaibhaw-/omopgen/internal/omopgen/export"
	"github.com/vaibhaw-/omopgen/internal/omopgen/logger"
)

// FileName is the manifest's name inside an export directory.
const FileName = "manifest.json"

// ErrHashMismatch is returned by Verify when any exported file changed.
var ErrHashMismatch = errors.New("exported file does not match manifest")

// Entry records one exported file.
type Entry struct {
	Table  string `json:"table"`
	File   string `json:"file"`
	Rows   int    `json:"rows"`
	SHA256 string `json:"sha256"`
}

// Manifest describes one export run.
type Manifest struct {
	RunID       string  `json:"run_id"`
	Seed        uint64  `json:"seed"`
	GeneratedAt string  `json:"generated_at"` // RFC3339, UTC
	Tables      []Entry `json:"tables"`
}

// Mismatch is a manifest entry whose file no longer matches.
type Mismatch struct {
	File     string `json:"file"`
	Expected string `json:"expected"`
	Actual   string `json:"actual,omitempty"` // empty when the file is missing
}

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Build hashes every file in dir and returns a manifest with a fresh run id.
func Build(dir string, seed uint64, files []export.File, now time.Time) (*Manifest, error) {
	m := &Manifest{
		RunID:       uuid.NewString(),
		Seed:        seed,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Tables:      make([]Entry, 0, len(files)),
	}
	for _, f := range files {
		sum, err := HashFile(filepath.Join(dir, f.Name))
		if err != nil {
			return nil, fmt.Errorf("hash %s: %w", f.Name, err)
		}
		m.Tables = append(m.Tables, Entry{Table: f.Table, File: f.Name, Rows: f.Rows, SHA256: sum})
	}
	return m, nil
}

// Write stores m as dir/manifest.json.
func Write(dir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	logger.L().Debugw("manifest written", "path", path, "run_id", m.RunID, "tables", len(m.Tables))
	return nil
}

// Read loads dir/manifest.json.
func Read(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Verify recomputes every hash listed in dir's manifest. It returns the
// manifest, the mismatching entries and, when there are any, an error
// wrapping ErrHashMismatch.
func Verify(dir string) (*Manifest, []Mismatch, error) {
	log := logger.L()
	m, err := Read(dir)
	if err != nil {
		return nil, nil, err
	}

	var bad []Mismatch
	for _, e := range m.Tables {
		sum, err := HashFile(filepath.Join(dir, e.File))
		if err != nil {
			if !os.IsNotExist(err) {
				return m, nil, fmt.Errorf("hash %s: %w", e.File, err)
			}
			sum = ""
		}
		if sum != e.SHA256 {
			log.Warnw("hash mismatch", "file", e.File, "expected", e.SHA256, "actual", sum)
			bad = append(bad, Mismatch{File: e.File, Expected: e.SHA256, Actual: sum})
			continue
		}
		log.Debugw("hash ok", "file", e.File)
	}
	if len(bad) > 0 {
		return m, bad, fmt.Errorf("%d of %d files: %w", len(bad), len(m.Tables), ErrHashMismatch)
	}
	return m, nil, nil
}

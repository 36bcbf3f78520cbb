package integration

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tables = []string{"person", "visit_occurrence", "condition_occurrence", "drug_exposure", "measurement"}

// TestGenerateIntegration_Deterministic runs the binary twice with the same
// seed and expects identical files.
func TestGenerateIntegration_Deterministic(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	projectRoot, err := getProjectRoot()
	require.NoError(t, err)
	binaryPath := buildOmopgenBinary(t, projectRoot)
	defer os.Remove(binaryPath)

	dirA, dirB := t.TempDir(), t.TempDir()
	for _, dir := range []string{dirA, dirB} {
		runOmopgen(t, binaryPath, "generate", "--persons", "200", "--visits", "1000", "--seed", "20240101", "--output", dir)
	}

	for _, table := range tables {
		a, err := os.ReadFile(filepath.Join(dirA, table+".csv"))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, table+".csv"))
		require.NoError(t, err)
		assert.Equal(t, a, b, "%s differs between seeded runs", table)
	}

	out := runOmopgen(t, binaryPath, "verify", "--dir", dirA)
	t.Logf("verify output:\n%s", out)
}

// TestGenerateIntegration_ConfigAndRunLog drives generation from a config
// file and checks the run log line.
func TestGenerateIntegration_ConfigAndRunLog(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	projectRoot, err := getProjectRoot()
	require.NoError(t, err)
	binaryPath := buildOmopgenBinary(t, projectRoot)
	defer os.Remove(binaryPath)

	work := t.TempDir()
	outDir := filepath.Join(work, "export")
	require.NoError(t, os.Mkdir(outDir, 0o755))
	runLogFile := filepath.Join(work, "runs.jsonl")
	configFile := filepath.Join(work, "omopgen.yaml")

	configContent := fmt.Sprintf(`generation:
  persons: 3
  visits: 5
  seed: 5
visits:
  window_start: "2020-01-01"
  window_end: "2020-12-31"
output:
  dir: "%s"
logging:
  level: "debug"
  run_log: "%s"
  development: true`, outDir, runLogFile)
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	runOmopgen(t, binaryPath, "--config", configFile)

	for _, table := range tables {
		require.FileExists(t, filepath.Join(outDir, table+".csv"))
	}
	require.FileExists(t, filepath.Join(outDir, "manifest.json"))

	f, err := os.Open(runLogFile)
	require.NoError(t, err)
	defer f.Close()
	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan(), "run log is empty")
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(sc.Bytes(), &summary))
	assert.Equal(t, "generate", summary["phase"])
	assert.Equal(t, "ok", summary["status"])
	assert.Equal(t, float64(5), summary["seed"])
	assert.NotEmpty(t, summary["run_id"])
}

// TestLoadIntegration loads an export into live databases named by
// OMOPGEN_TEST_PG_DSN and OMOPGEN_TEST_MYSQL_DSN.
func TestLoadIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	targets := map[string]string{
		"postgres": os.Getenv("OMOPGEN_TEST_PG_DSN"),
		"mysql":    os.Getenv("OMOPGEN_TEST_MYSQL_DSN"),
	}

	projectRoot, err := getProjectRoot()
	require.NoError(t, err)

	for driver, dsn := range targets {
		t.Run(driver, func(t *testing.T) {
			if dsn == "" {
				t.Skipf("skipping %s load, DSN env var not set", driver)
			}
			binaryPath := buildOmopgenBinary(t, projectRoot)
			defer os.Remove(binaryPath)

			dir := t.TempDir()
			runOmopgen(t, binaryPath, "generate", "--persons", "50", "--visits", "200", "--seed", "3", "--output", dir)
			runOmopgen(t, binaryPath, "load", "--dir", dir, "--driver", driver, "--dsn", dsn, "--create-schema")

			db, err := sql.Open(driver, dsn)
			require.NoError(t, err)
			defer db.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			var persons, orphans int
			require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM person").Scan(&persons))
			assert.Equal(t, 50, persons)
			require.NoError(t, db.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM condition_occurrence c LEFT JOIN visit_occurrence v "+
					"ON c.visit_occurrence_id = v.visit_occurrence_id WHERE v.visit_occurrence_id IS NULL").Scan(&orphans))
			assert.Equal(t, 0, orphans)
		})
	}
}

func runOmopgen(t *testing.T, binaryPath string, args ...string) string {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command output: %s", string(output))
		require.NoError(t, err, "omopgen %v failed", args)
	}
	return string(output)
}

func getProjectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Look for go.mod file to identify project root
	for dir := wd; dir != "/"; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
	}
	return wd, nil
}

func buildOmopgenBinary(t *testing.T, projectRoot string) string {
	binaryPath := filepath.Join(t.TempDir(), "omopgen_test")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/omopgen")
	cmd.Dir = projectRoot

	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Build output: %s", string(output))
		require.NoError(t, err, "Failed to build omopgen binary")
	}
	return binaryPath
}

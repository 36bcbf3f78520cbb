package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/export"
	"github.com/vaibhaw-/omopgen/internal/omopgen/generate"
	"github.com/vaibhaw-/omopgen/internal/omopgen/logger"
	"github.com/vaibhaw-/omopgen/internal/omopgen/sampler"
)

func init() {
	logger.SetForTest(zap.NewNop().Sugar())
}

// exportRun generates and exports a small dataset into a fresh directory.
func exportRun(t *testing.T, seed uint64) (string, *Manifest) {
	t.Helper()
	opts := generate.DefaultOptions()
	opts.Persons, opts.Visits = 25, 80
	opts.Now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ds, err := generate.Run(context.Background(), sampler.New(seed), catalog.Default(), opts)
	require.NoError(t, err)

	dir := t.TempDir()
	files, err := export.WriteCSVFiles(dir, ds.Tables())
	require.NoError(t, err)
	m, err := Build(dir, seed, files, time.Now())
	require.NoError(t, err)
	require.NoError(t, Write(dir, m))
	return dir, m
}

func TestSeededRunsAreByteIdentical(t *testing.T) {
	dirA, a := exportRun(t, 99)
	dirB, b := exportRun(t, 99)

	require.Len(t, a.Tables, 5)
	assert.Equal(t, a.Tables, b.Tables)
	assert.NotEqual(t, a.RunID, b.RunID)

	for _, e := range a.Tables {
		da, err := os.ReadFile(filepath.Join(dirA, e.File))
		require.NoError(t, err)
		db, err := os.ReadFile(filepath.Join(dirB, e.File))
		require.NoError(t, err)
		assert.Equal(t, da, db, e.File)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "person.csv"), []byte("abc"), 0o644))

	m, err := Build(dir, 7, []export.File{{Table: "person", Name: "person.csv", Rows: 0}}, time.Date(2024, 5, 1, 8, 0, 0, 0, time.FixedZone("x", 3600)))
	require.NoError(t, err)

	_, err = uuid.Parse(m.RunID)
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), m.Seed)
	assert.Equal(t, "2024-05-01T07:00:00Z", m.GeneratedAt)
	require.Len(t, m.Tables, 1)
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", m.Tables[0].SHA256)

	_, err = Build(dir, 7, []export.File{{Table: "drug_exposure", Name: "drug_exposure.csv"}}, time.Now())
	assert.Error(t, err)
}

func TestVerify_Clean(t *testing.T) {
	dir, m := exportRun(t, 5)
	got, bad, err := Verify(dir)
	require.NoError(t, err)
	assert.Empty(t, bad)
	assert.Equal(t, m, got)
}

func TestVerify_Tampered(t *testing.T) {
	dir, _ := exportRun(t, 5)
	path := filepath.Join(dir, "visit_occurrence.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(data, []byte("1,2,3\n")...), 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "measurement.csv")))

	_, bad, err := Verify(dir)
	assert.ErrorIs(t, err, ErrHashMismatch)
	require.Len(t, bad, 2)
	assert.Equal(t, "visit_occurrence.csv", bad[0].File)
	assert.NotEmpty(t, bad[0].Actual)
	assert.Equal(t, "measurement.csv", bad[1].File)
	assert.Empty(t, bad[1].Actual)
}

func TestVerify_NoManifest(t *testing.T) {
	_, _, err := Verify(t.TempDir())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrHashMismatch)
}

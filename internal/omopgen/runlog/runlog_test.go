package runlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")

	require.NoError(t, Append(path, Summary{Phase: "generate", Seed: 42, Status: "ok", Rows: map[string]int{"person": 3}}))
	require.NoError(t, Append(path, Summary{Phase: "verify", Status: "fail", Mismatches: []string{"person.csv"}}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, sc.Err())
	require.Len(t, lines, 2)

	assert.Equal(t, "generate", lines[0]["phase"])
	assert.Equal(t, float64(42), lines[0]["seed"])
	assert.NotContains(t, lines[0], "mismatches")
	assert.Equal(t, "fail", lines[1]["status"])
	assert.NotContains(t, lines[1], "seed")
}

func TestAppend_EmptyPath(t *testing.T) {
	assert.NoError(t, Append("", Summary{Phase: "generate"}))
}

func TestAppend_BadPath(t *testing.T) {
	err := Append(filepath.Join(t.TempDir(), "missing", "runs.jsonl"), Summary{})
	assert.Error(t, err)
}

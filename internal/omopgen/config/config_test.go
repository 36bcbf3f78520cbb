package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhaw-/omopgen/internal/omopgen/generate"
	"github.com/vaibhaw-/omopgen/internal/omopgen/ids"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, Load(v))

	cfg := Get()
	assert.Equal(t, 10000, cfg.Generation.Persons)
	assert.Equal(t, 50000, cfg.Generation.Visits)
	assert.Equal(t, uint64(0), cfg.Generation.Seed)
	assert.Equal(t, "export", cfg.Output.Dir)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "postgres", cfg.Output.Dialect)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 5*time.Minute, cfg.Database.Timeout)
	assert.Equal(t, int64(1000000000), cfg.IDs.Person.Base)
	assert.Equal(t, int64(5000000000), cfg.IDs.Measurement.Base)

	opts, err := cfg.GenerateOptions()
	require.NoError(t, err)
	def := generate.DefaultOptions()
	assert.Equal(t, def.Rules, opts.Rules)
	assert.Equal(t, def.Ranges, opts.Ranges)
	assert.False(t, opts.LinkThemes)
}

func TestLoad_FullConfig(t *testing.T) {
	yml := `
generation:
  persons: 3
  visits: 5
  seed: 42
  link_themes: true
  catalog_file: ./catalog.yaml
visits:
  window_start: "2019-06-01"
  window_end: "2020/03/31"
  inpatient_min_days: 2
  inpatient_max_days: 7
ids:
  person: {base: 100, width: 10}
  visit_occurrence: {base: 200, width: 100}
output:
  dir: ./out
  format: sql
  dialect: mysql
logging:
  level: debug
  development: true
  run_log: ./runs.jsonl
database:
  driver: mysql
  dsn: "u:p@tcp(localhost:3306)/cdm"
  timeout: 30s
`
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yml)))
	require.NoError(t, Load(v))

	cfg := Get()
	assert.Equal(t, 3, cfg.Generation.Persons)
	assert.Equal(t, uint64(42), cfg.Generation.Seed)
	assert.True(t, cfg.Generation.LinkThemes)
	assert.Equal(t, "./catalog.yaml", cfg.Generation.CatalogFile)
	assert.Equal(t, "sql", cfg.Output.Format)
	assert.Equal(t, "mysql", cfg.Output.Dialect)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "./runs.jsonl", cfg.Logging.RunLog)
	assert.Equal(t, 30*time.Second, cfg.Database.Timeout)

	opts, err := cfg.GenerateOptions()
	require.NoError(t, err)
	assert.Equal(t, "2019-06-01", opts.Rules.WindowStart.String())
	assert.Equal(t, "2020-03-31", opts.Rules.WindowEnd.String())
	assert.Equal(t, 2, opts.Rules.InpatientMinDays)
	assert.Equal(t, ids.Range{Name: ids.Person, Base: 100, Width: 10}, opts.Ranges[ids.Person])
	// unset ranges keep their defaults
	assert.Equal(t, int64(3000000000), opts.Ranges[ids.ConditionOccurrence].Base)
	assert.True(t, opts.LinkThemes)
}

func TestGenerateOptions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr error
		wantMsg string
	}{
		{"bad date", "visits.window_start", "not a date", nil, "visits.window_start"},
		{"overlap", "ids.drug_exposure.base", int64(3000000001), ids.ErrRangeOverlap, ""},
		{"negative persons", "generation.persons", -5, generate.ErrInvalidCount, ""},
		{"zero stay", "visits.inpatient_min_days", 0, generate.ErrInvalidVisitRules, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			require.NoError(t, Load(v))

			_, err := Get().GenerateOptions()
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

package generate

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/sampler"
)

func TestNewStats(t *testing.T) {
	cat := catalog.Default()
	opts := DefaultOptions()
	opts.Persons, opts.Visits, opts.Now = 20, 60, fixedNow
	ds, err := Run(context.Background(), sampler.New(9), cat, opts)
	require.NoError(t, err)

	st := NewStats(ds, cat)
	assert.Equal(t, 20, st.Rows[cdm.PersonTable])
	assert.Equal(t, 60, st.Rows[cdm.VisitOccurrenceTable])
	assert.Equal(t, len(ds.Conditions), st.Rows[cdm.ConditionOccurrenceTable])
	assert.Equal(t, 60, st.VisitsByType["Inpatient Visit"]+st.VisitsByType["Outpatient Visit"])

	themed := 0
	for _, n := range st.ConditionThemes {
		themed += n
	}
	assert.Equal(t, 20, themed)
	assert.Equal(t, 20-len(GroupVisits(ds.Visits)), st.PersonsWithoutVisits)

	measured := 0
	for _, n := range st.MeasurementsByName {
		measured += n
	}
	assert.Equal(t, len(ds.Measurements), measured)
}

func TestStats_PrintSummary(t *testing.T) {
	st := &Stats{
		Seed:            42,
		Rows:            map[string]int{cdm.PersonTable: 3, cdm.VisitOccurrenceTable: 5},
		VisitsByType:    map[string]int{"Outpatient Visit": 4, "Inpatient Visit": 1},
		ConditionThemes: map[string]int{"respiratory": 2, "cardiometabolic": 1},
	}
	var buf bytes.Buffer
	st.PrintSummary(&buf)
	out := buf.String()

	assert.Contains(t, out, "Seed: 42")
	assert.Contains(t, out, "    person: 3\n")
	assert.Contains(t, out, "    measurement: 0\n")
	assert.NotContains(t, out, "Drug themes")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Outpatient Visit")), bytes.Index(buf.Bytes(), []byte("Inpatient Visit")))
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("respiratory")), bytes.Index(buf.Bytes(), []byte("cardiometabolic")))
}

func TestStats_SummaryMap(t *testing.T) {
	st := &Stats{Seed: 1, PersonsWithoutVisits: 2}
	m := st.SummaryMap()
	assert.Equal(t, uint64(1), m["seed"])
	assert.Equal(t, 2, m["persons_without_visits"])
}

func TestLabelOr(t *testing.T) {
	labels := map[int64]string{1: "one", 2: ""}
	assert.Equal(t, "one", labelOr(labels, 1))
	assert.Equal(t, "2", labelOr(labels, 2))
	assert.Equal(t, "3", labelOr(labels, 3))
}

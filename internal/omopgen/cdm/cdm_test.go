package cdm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFields_CoverColumns(t *testing.T) {
	records := map[string]Record{
		PersonTable:              Person{},
		VisitOccurrenceTable:     Visit{},
		ConditionOccurrenceTable: ConditionOccurrence{},
		DrugExposureTable:        DrugExposure{},
		MeasurementTable:         Measurement{},
	}
	for table, rec := range records {
		t.Run(table, func(t *testing.T) {
			fields := rec.Fields()
			cols := Columns[table]
			assert.Len(t, fields, len(cols))
			for _, c := range cols {
				assert.Contains(t, fields, c)
			}
		})
	}
}

func TestColumns_Widths(t *testing.T) {
	assert.Len(t, Columns[PersonTable], 18)
	assert.Len(t, Columns[VisitOccurrenceTable], 17)
	assert.Len(t, Columns[ConditionOccurrenceTable], 16)
	assert.Len(t, Columns[DrugExposureTable], 23)
	assert.Len(t, Columns[MeasurementTable], 23)
	assert.Len(t, TableOrder, len(Columns))
}

func TestDate(t *testing.T) {
	d := NewDate(time.Date(2015, 1, 1, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2015-01-01", d.String())

	later := d.AddDays(14)
	assert.Equal(t, "2015-01-15", later.String())
	assert.Equal(t, 14, d.DaysUntil(later))
	assert.Equal(t, 0, d.DaysUntil(d))
}

func TestTypeOf(t *testing.T) {
	tests := map[string]ColumnType{
		"person_id":              TypeBigint,
		"year_of_birth":          TypeInteger,
		"visit_start_date":       TypeDate,
		"birth_datetime":         TypeTimestamp,
		"value_as_number":        TypeNumeric,
		"person_source_value":    TypeText,
		"verbatim_end_date":      TypeDate,
		"measurement_time":       TypeText,
		"drug_exposure_end_date": TypeDate,
	}
	for col, want := range tests {
		assert.Equal(t, want, TypeOf(col), col)
	}
}

// Package cdm defines the OMOP CDM v5.4 records produced by the generators
// and the column order each table is exported in.
package cdm

import "time"

// Table names.
const (
	PersonTable              = "person"
	VisitOccurrenceTable     = "visit_occurrence"
	ConditionOccurrenceTable = "condition_occurrence"
	DrugExposureTable        = "drug_exposure"
	MeasurementTable         = "measurement"
)

// Fixed type concepts.
const (
	VisitTypeClaim            int64 = 44818517 // Visit derived from encounter on claim
	ConditionTypeEHRDiagnosis int64 = 32020    // EHR encounter diagnosis
	DrugTypePrescription      int64 = 38000177 // Prescription written
	RouteOral                 int64 = 4132161
	MeasurementTypeLabResult  int64 = 44818701
)

// DateLayout is the export format of date columns.
const DateLayout = "2006-01-02"

// Date is a calendar day.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time.Sub(d.Time).Hours() / 24)
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// Record is a row of any CDM table. Fields maps column name to value;
// nil means null.
type Record interface {
	Fields() map[string]any
}

// Person is a row of the person table.
type Person struct {
	PersonID           int64
	GenderConceptID    int64
	YearOfBirth        int
	RaceConceptID      int64
	EthnicityConceptID int64
}

func (p Person) Fields() map[string]any {
	return map[string]any{
		"person_id":                   p.PersonID,
		"gender_concept_id":           p.GenderConceptID,
		"year_of_birth":               p.YearOfBirth,
		"month_of_birth":              nil,
		"day_of_birth":                nil,
		"birth_datetime":              nil,
		"race_concept_id":             p.RaceConceptID,
		"ethnicity_concept_id":        p.EthnicityConceptID,
		"location_id":                 nil,
		"provider_id":                 nil,
		"care_site_id":                nil,
		"person_source_value":         nil,
		"gender_source_value":         nil,
		"gender_source_concept_id":    nil,
		"race_source_value":           nil,
		"race_source_concept_id":      nil,
		"ethnicity_source_value":      nil,
		"ethnicity_source_concept_id": nil,
	}
}

// Visit is a row of the visit_occurrence table.
type Visit struct {
	VisitOccurrenceID int64
	PersonID          int64
	VisitConceptID    int64
	StartDate         Date
	EndDate           Date
	TypeConceptID     int64
}

func (v Visit) Fields() map[string]any {
	return map[string]any{
		"visit_occurrence_id":           v.VisitOccurrenceID,
		"person_id":                     v.PersonID,
		"visit_concept_id":              v.VisitConceptID,
		"visit_start_date":              v.StartDate,
		"visit_start_datetime":          nil,
		"visit_end_date":                v.EndDate,
		"visit_end_datetime":            nil,
		"visit_type_concept_id":         v.TypeConceptID,
		"provider_id":                   nil,
		"care_site_id":                  nil,
		"visit_source_value":            nil,
		"visit_source_concept_id":       nil,
		"admitted_from_concept_id":      nil,
		"admitted_from_source_value":    nil,
		"discharged_to_concept_id":      nil,
		"discharged_to_source_value":    nil,
		"preceding_visit_occurrence_id": nil,
	}
}

// ConditionOccurrence is a row of the condition_occurrence table.
type ConditionOccurrence struct {
	ConditionOccurrenceID int64
	PersonID              int64
	ConditionConceptID    int64
	StartDate             Date
	TypeConceptID         int64
	VisitOccurrenceID     int64
}

func (c ConditionOccurrence) Fields() map[string]any {
	return map[string]any{
		"condition_occurrence_id":       c.ConditionOccurrenceID,
		"person_id":                     c.PersonID,
		"condition_concept_id":          c.ConditionConceptID,
		"condition_start_date":          c.StartDate,
		"condition_start_datetime":      nil,
		"condition_end_date":            nil,
		"condition_end_datetime":        nil,
		"condition_type_concept_id":     c.TypeConceptID,
		"condition_status_concept_id":   nil,
		"stop_reason":                   nil,
		"provider_id":                   nil,
		"visit_occurrence_id":           c.VisitOccurrenceID,
		"visit_detail_id":               nil,
		"condition_source_value":        nil,
		"condition_source_concept_id":   nil,
		"condition_status_source_value": nil,
	}
}

// DrugExposure is a row of the drug_exposure table.
type DrugExposure struct {
	DrugExposureID    int64
	PersonID          int64
	DrugConceptID     int64
	StartDate         Date
	EndDate           Date
	TypeConceptID     int64
	RouteConceptID    int64
	VisitOccurrenceID int64
}

func (d DrugExposure) Fields() map[string]any {
	return map[string]any{
		"drug_exposure_id":             d.DrugExposureID,
		"person_id":                    d.PersonID,
		"drug_concept_id":              d.DrugConceptID,
		"drug_exposure_start_date":     d.StartDate,
		"drug_exposure_start_datetime": nil,
		"drug_exposure_end_date":       d.EndDate,
		"drug_exposure_end_datetime":   nil,
		"verbatim_end_date":            nil,
		"drug_type_concept_id":         d.TypeConceptID,
		"stop_reason":                  nil,
		"refills":                      nil,
		"quantity":                     nil,
		"days_supply":                  nil,
		"sig":                          nil,
		"route_concept_id":             d.RouteConceptID,
		"lot_number":                   nil,
		"provider_id":                  nil,
		"visit_occurrence_id":          d.VisitOccurrenceID,
		"visit_detail_id":              nil,
		"drug_source_value":            nil,
		"drug_source_concept_id":       nil,
		"route_source_value":           nil,
		"dose_unit_source_value":       nil,
	}
}

// Measurement is a row of the measurement table.
type Measurement struct {
	MeasurementID        int64
	PersonID             int64
	MeasurementConceptID int64
	Date                 Date
	TypeConceptID        int64
	ValueAsNumber        float64
	UnitConceptID        int64
	VisitOccurrenceID    int64
}

func (m Measurement) Fields() map[string]any {
	return map[string]any{
		"measurement_id":                m.MeasurementID,
		"person_id":                     m.PersonID,
		"measurement_concept_id":        m.MeasurementConceptID,
		"measurement_date":              m.Date,
		"measurement_datetime":          nil,
		"measurement_time":              nil,
		"measurement_type_concept_id":   m.TypeConceptID,
		"operator_concept_id":           nil,
		"value_as_number":               m.ValueAsNumber,
		"value_as_concept_id":           nil,
		"unit_concept_id":               m.UnitConceptID,
		"range_low":                     nil,
		"range_high":                    nil,
		"provider_id":                   nil,
		"visit_occurrence_id":           m.VisitOccurrenceID,
		"visit_detail_id":               nil,
		"measurement_source_value":      nil,
		"measurement_source_concept_id": nil,
		"unit_source_value":             nil,
		"unit_source_concept_id":        nil,
		"value_source_value":            nil,
		"measurement_event_id":          nil,
		"meas_event_field_concept_id":   nil,
	}
}

// Table is a named, ordered collection of records of one type.
type Table struct {
	Name    string
	Records []Record
}

// NewTable converts a typed slice into a Table.
func NewTable[R Record](name string, rows []R) Table {
	recs := make([]Record, len(rows))
	for i, r := range rows {
		recs[i] = r
	}
	return Table{Name: name, Records: recs}
}

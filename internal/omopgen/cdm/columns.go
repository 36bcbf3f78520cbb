package cdm

import "strings"

// Columns lists each table's columns in export order.
var Columns = map[string][]string{
	PersonTable: {
		"person_id", "gender_concept_id", "year_of_birth", "month_of_birth",
		"day_of_birth", "birth_datetime", "race_concept_id", "ethnicity_concept_id",
		"location_id", "provider_id", "care_site_id", "person_source_value",
		"gender_source_value", "gender_source_concept_id", "race_source_value",
		"race_source_concept_id", "ethnicity_source_value", "ethnicity_source_concept_id",
	},
	VisitOccurrenceTable: {
		"visit_occurrence_id", "person_id", "visit_concept_id", "visit_start_date",
		"visit_start_datetime", "visit_end_date", "visit_end_datetime", "visit_type_concept_id",
		"provider_id", "care_site_id", "visit_source_value", "visit_source_concept_id",
		"admitted_from_concept_id", "admitted_from_source_value", "discharged_to_concept_id",
		"discharged_to_source_value", "preceding_visit_occurrence_id",
	},
	ConditionOccurrenceTable: {
		"condition_occurrence_id", "person_id", "condition_concept_id", "condition_start_date",
		"condition_start_datetime", "condition_end_date", "condition_end_datetime",
		"condition_type_concept_id", "condition_status_concept_id", "stop_reason",
		"provider_id", "visit_occurrence_id", "visit_detail_id", "condition_source_value",
		"condition_source_concept_id", "condition_status_source_value",
	},
	DrugExposureTable: {
		"drug_exposure_id", "person_id", "drug_concept_id", "drug_exposure_start_date",
		"drug_exposure_start_datetime", "drug_exposure_end_date", "drug_exposure_end_datetime",
		"verbatim_end_date", "drug_type_concept_id", "stop_reason", "refills", "quantity",
		"days_supply", "sig", "route_concept_id", "lot_number", "provider_id",
		"visit_occurrence_id", "visit_detail_id", "drug_source_value",
		"drug_source_concept_id", "route_source_value", "dose_unit_source_value",
	},
	MeasurementTable: {
		"measurement_id", "person_id", "measurement_concept_id", "measurement_date",
		"measurement_datetime", "measurement_time", "measurement_type_concept_id",
		"operator_concept_id", "value_as_number", "value_as_concept_id", "unit_concept_id",
		"range_low", "range_high", "provider_id", "visit_occurrence_id", "visit_detail_id",
		"measurement_source_value", "measurement_source_concept_id", "unit_source_value",
		"unit_source_concept_id", "value_source_value", "measurement_event_id",
		"meas_event_field_concept_id",
	},
}

// TableOrder is the dependency order tables are generated, exported and loaded in.
var TableOrder = []string{
	PersonTable,
	VisitOccurrenceTable,
	ConditionOccurrenceTable,
	DrugExposureTable,
	MeasurementTable,
}

// ColumnType is the SQL type family of a column.
type ColumnType int

const (
	TypeBigint ColumnType = iota
	TypeInteger
	TypeDate
	TypeTimestamp
	TypeNumeric
	TypeText
)

// TypeOf returns the v5.4 type family of a column name.
func TypeOf(column string) ColumnType {
	switch column {
	case "year_of_birth", "month_of_birth", "day_of_birth", "refills", "days_supply":
		return TypeInteger
	case "quantity", "value_as_number", "range_low", "range_high":
		return TypeNumeric
	case "verbatim_end_date":
		return TypeDate
	case "measurement_time", "stop_reason", "sig", "lot_number":
		return TypeText
	}
	switch {
	case strings.HasSuffix(column, "_datetime"):
		return TypeTimestamp
	case strings.HasSuffix(column, "_date"):
		return TypeDate
	case strings.HasSuffix(column, "_id"):
		return TypeBigint
	default:
		return TypeText
	}
}

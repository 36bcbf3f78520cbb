package generate

import (
	"fmt"
	"io"
	"sort"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
)

// Stats summarises a generated dataset.
type Stats struct {
	Seed                 uint64
	Rows                 map[string]int // rows per table
	VisitsByType         map[string]int
	ConditionThemes      map[string]int // persons per condition theme
	DrugThemes           map[string]int // persons per drug theme
	MeasurementsByName   map[string]int
	PersonsWithoutVisits int
}

// NewStats computes Stats for d. Labels come from cat where available.
func NewStats(d *Dataset, cat *catalog.Catalog) *Stats {
	s := &Stats{
		Seed:               d.Seed,
		Rows:               make(map[string]int),
		VisitsByType:       make(map[string]int),
		ConditionThemes:    d.ConditionThemes.Counts(),
		DrugThemes:         d.DrugThemes.Counts(),
		MeasurementsByName: make(map[string]int),
	}
	for _, t := range d.Tables() {
		s.Rows[t.Name] = len(t.Records)
	}

	visitLabels := map[int64]string{}
	for _, w := range cat.VisitTypes {
		visitLabels[w.Value] = w.Label
	}
	for _, v := range d.Visits {
		s.VisitsByType[labelOr(visitLabels, v.VisitConceptID)]++
	}

	measLabels := map[int64]string{}
	for _, m := range cat.Measurements {
		measLabels[m.ConceptID] = m.Name
	}
	for _, m := range d.Measurements {
		s.MeasurementsByName[labelOr(measLabels, m.MeasurementConceptID)]++
	}

	byPerson := GroupVisits(d.Visits)
	for _, p := range d.Persons {
		if len(byPerson[p.PersonID]) == 0 {
			s.PersonsWithoutVisits++
		}
	}
	return s
}

func labelOr(labels map[int64]string, id int64) string {
	if l, ok := labels[id]; ok && l != "" {
		return l
	}
	return fmt.Sprintf("%d", id)
}

// PrintSummary writes a human-readable summary. Breakdowns are sorted by
// count descending, then name.
func (s *Stats) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Seed: %d\n", s.Seed)
	fmt.Fprintf(w, "  Rows:\n")
	for _, table := range cdm.TableOrder {
		fmt.Fprintf(w, "    %s: %d\n", table, s.Rows[table])
	}
	fmt.Fprintf(w, "  Persons without visits: %d\n", s.PersonsWithoutVisits)
	fmt.Fprintf(w, "\n")

	sections := []struct {
		title string
		m     map[string]int
	}{
		{"By visit type", s.VisitsByType},
		{"Condition themes (persons)", s.ConditionThemes},
		{"Drug themes (persons)", s.DrugThemes},
		{"By measurement", s.MeasurementsByName},
	}
	for _, sec := range sections {
		if len(sec.m) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s:\n", sec.title)
		printSortedMap(w, sec.m, "    ")
		fmt.Fprintf(w, "\n")
	}
}

func printSortedMap(w io.Writer, m map[string]int, indent string) {
	type kv struct {
		key   string
		value int
	}
	pairs := make([]kv, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, kv{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].value == pairs[j].value {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value > pairs[j].value
	})
	for _, p := range pairs {
		fmt.Fprintf(w, "%s%s: %d\n", indent, p.key, p.value)
	}
}

// SummaryMap returns the statistics for programmatic access.
func (s *Stats) SummaryMap() map[string]interface{} {
	return map[string]interface{}{
		"seed":                   s.Seed,
		"rows":                   s.Rows,
		"visits_by_type":         s.VisitsByType,
		"condition_themes":       s.ConditionThemes,
		"drug_themes":            s.DrugThemes,
		"measurements_by_name":   s.MeasurementsByName,
		"persons_without_visits": s.PersonsWithoutVisits,
	}
}

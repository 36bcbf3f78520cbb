package generate

import (
	"fmt"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/ids"
	"github.com/vaibhaw-/omopgen/internal/omopgen/sampler"
)

// Per-visit record counts, inclusive.
const (
	MinConditionsPerVisit = 1
	MaxConditionsPerVisit = 3
	MinDrugsPerVisit      = 1
	MaxDrugsPerVisit      = 2
)

type emitFunc func(id, personID int64, visit cdm.Visit, concept int64)

// emitThemed walks persons in order and, for each of their visits, draws
// min..max concepts from the person's theme in cl.
func emitThemed(s *sampler.Sampler, cl catalog.Clusters, themes Assignment, personIDs []int64,
	byPerson map[int64][]cdm.Visit, counter *ids.Counter, min, max int, emit emitFunc) error {
	for _, pid := range personIDs {
		visits := byPerson[pid]
		if len(visits) == 0 {
			continue
		}
		name, ok := themes[pid]
		if !ok {
			return fmt.Errorf("person %d has no theme: %w", pid, catalog.ErrUnknownTheme)
		}
		theme, err := cl.Lookup(name)
		if err != nil {
			return err
		}
		for _, v := range visits {
			k := s.IntRange(min, max)
			concepts, err := s.SampleCategorical(theme.Concepts, k)
			if err != nil {
				return fmt.Errorf("theme %q: %w", name, err)
			}
			for _, c := range concepts {
				id, err := counter.Next()
				if err != nil {
					return err
				}
				emit(id, pid, v, c)
			}
		}
	}
	return nil
}

// Conditions emits 1-3 condition occurrences per visit, each drawn from
// the owning person's condition theme and dated at the visit start.
func Conditions(s *sampler.Sampler, cl catalog.Clusters, themes Assignment, personIDs []int64,
	byPerson map[int64][]cdm.Visit, counter *ids.Counter) ([]cdm.ConditionOccurrence, error) {
	out := []cdm.ConditionOccurrence{}
	err := emitThemed(s, cl, themes, personIDs, byPerson, counter, MinConditionsPerVisit, MaxConditionsPerVisit,
		func(id, pid int64, v cdm.Visit, concept int64) {
			out = append(out, cdm.ConditionOccurrence{
				ConditionOccurrenceID: id,
				PersonID:              pid,
				ConditionConceptID:    concept,
				StartDate:             v.StartDate,
				TypeConceptID:         cdm.ConditionTypeEHRDiagnosis,
				VisitOccurrenceID:     v.VisitOccurrenceID,
			})
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Drugs emits 1-2 oral prescriptions per visit from the owning person's
// drug theme. Exposures start and end on the visit start date.
func Drugs(s *sampler.Sampler, cl catalog.Clusters, themes Assignment, personIDs []int64,
	byPerson map[int64][]cdm.Visit, counter *ids.Counter) ([]cdm.DrugExposure, error) {
	out := []cdm.DrugExposure{}
	err := emitThemed(s, cl, themes, personIDs, byPerson, counter, MinDrugsPerVisit, MaxDrugsPerVisit,
		func(id, pid int64, v cdm.Visit, concept int64) {
			out = append(out, cdm.DrugExposure{
				DrugExposureID:    id,
				PersonID:          pid,
				DrugConceptID:     concept,
				StartDate:         v.StartDate,
				EndDate:           v.StartDate,
				TypeConceptID:     cdm.DrugTypePrescription,
				RouteConceptID:    cdm.RouteOral,
				VisitOccurrenceID: v.VisitOccurrenceID,
			})
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

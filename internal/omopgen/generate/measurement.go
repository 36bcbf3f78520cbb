package generate

import (
	"math"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/ids"
	"github.com/vaibhaw-/omopgen/internal/omopgen/sampler"
)

// Measurements attempts every definition once per visit. A definition is
// recorded with its probability, valued by a normal draw rounded to the
// nearest integer. Negative draws are kept as is.
func Measurements(s *sampler.Sampler, defs []catalog.MeasurementDef, personIDs []int64,
	byPerson map[int64][]cdm.Visit, counter *ids.Counter) ([]cdm.Measurement, error) {
	out := []cdm.Measurement{}
	for _, pid := range personIDs {
		for _, v := range byPerson[pid] {
			for _, def := range defs {
				if !s.Bernoulli(def.Probability) {
					continue
				}
				value := math.Round(s.Normal(def.Mean, def.Std))
				id, err := counter.Next()
				if err != nil {
					return nil, err
				}
				out = append(out, cdm.Measurement{
					MeasurementID:        id,
					PersonID:             pid,
					MeasurementConceptID: def.ConceptID,
					Date:                 v.StartDate,
					TypeConceptID:        cdm.MeasurementTypeLabResult,
					ValueAsNumber:        value,
					UnitConceptID:        def.UnitConceptID,
					VisitOccurrenceID:    v.VisitOccurrenceID,
				})
			}
		}
	}
	return out, nil
}

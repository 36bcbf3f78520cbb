package generate

import (
	"fmt"
	"math"
	"time"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/sampler"
)

// Persons builds one person per identifier. Age is drawn from the
// catalogue's beta model and scaled into its year range, so the draw
// skews toward older ages when alpha > beta.
func Persons(s *sampler.Sampler, demo catalog.Demographics, personIDs []int64, now time.Time) ([]cdm.Person, error) {
	n := len(personIDs)

	ageDraws := s.SampleBeta(demo.Age.Alpha, demo.Age.Beta, n)
	genders, err := s.SampleCategorical(demo.Gender, n)
	if err != nil {
		return nil, fmt.Errorf("gender: %w", err)
	}
	races, err := s.SampleCategorical(demo.Race, n)
	if err != nil {
		return nil, fmt.Errorf("race: %w", err)
	}
	ethnicities, err := s.SampleCategorical(demo.Ethnicity, n)
	if err != nil {
		return nil, fmt.Errorf("ethnicity: %w", err)
	}

	currentYear := now.Year()
	span := float64(demo.Age.Max - demo.Age.Min)

	persons := make([]cdm.Person, n)
	for i, id := range personIDs {
		age := ageDraws[i]*span + float64(demo.Age.Min)
		persons[i] = cdm.Person{
			PersonID:           id,
			GenderConceptID:    genders[i],
			YearOfBirth:        currentYear - int(math.Floor(age)),
			RaceConceptID:      races[i],
			EthnicityConceptID: ethnicities[i],
		}
	}
	return persons, nil
}

package generate

import (
	"errors"
	"fmt"
	"time"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/sampler"
)

var (
	// ErrNoPersons is returned when visits are requested for an empty person set.
	ErrNoPersons = errors.New("visits requested but no persons to own them")
	// ErrInvalidVisitRules is returned for an empty window or bad stay lengths.
	ErrInvalidVisitRules = errors.New("invalid visit rules")
)

// VisitRules bounds visit dates.
type VisitRules struct {
	WindowStart      cdm.Date
	WindowEnd        cdm.Date
	InpatientMinDays int
	InpatientMaxDays int
}

// DefaultVisitRules covers 2015-01-01..2023-12-31 with 1-14 day stays.
func DefaultVisitRules() VisitRules {
	return VisitRules{
		WindowStart:      cdm.NewDate(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)),
		WindowEnd:        cdm.NewDate(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)),
		InpatientMinDays: 1,
		InpatientMaxDays: 14,
	}
}

// Validate checks the window is non-empty and stays are at least a day.
func (r VisitRules) Validate() error {
	if r.WindowEnd.Before(r.WindowStart.Time) {
		return fmt.Errorf("window %s..%s: %w", r.WindowStart, r.WindowEnd, ErrInvalidVisitRules)
	}
	if r.InpatientMinDays < 1 || r.InpatientMaxDays < r.InpatientMinDays {
		return fmt.Errorf("inpatient stay [%d,%d] days: %w", r.InpatientMinDays, r.InpatientMaxDays, ErrInvalidVisitRules)
	}
	return nil
}

// Visits builds one visit per identifier in visitIDs. Owners are drawn
// uniformly with replacement, so a person may have no visits at all.
// Inpatient visits last InpatientMinDays..InpatientMaxDays; every other
// visit type ends the day it starts.
func Visits(s *sampler.Sampler, rules VisitRules, visitTypes []sampler.Weighted, personIDs, visitIDs []int64) ([]cdm.Visit, error) {
	n := len(visitIDs)
	if n == 0 {
		return []cdm.Visit{}, nil
	}
	if len(personIDs) == 0 {
		return nil, ErrNoPersons
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	owners := make([]int64, n)
	for i := range owners {
		owners[i] = personIDs[s.Choice(len(personIDs))]
	}

	concepts, err := s.SampleCategorical(visitTypes, n)
	if err != nil {
		return nil, fmt.Errorf("visit type: %w", err)
	}

	windowDays := rules.WindowStart.DaysUntil(rules.WindowEnd)
	starts := make([]cdm.Date, n)
	for i := range starts {
		starts[i] = rules.WindowStart.AddDays(s.IntRange(0, windowDays))
	}

	visits := make([]cdm.Visit, n)
	for i, id := range visitIDs {
		end := starts[i]
		if concepts[i] == catalog.InpatientVisit {
			end = starts[i].AddDays(s.IntRange(rules.InpatientMinDays, rules.InpatientMaxDays))
		}
		visits[i] = cdm.Visit{
			VisitOccurrenceID: id,
			PersonID:          owners[i],
			VisitConceptID:    concepts[i],
			StartDate:         starts[i],
			EndDate:           end,
			TypeConceptID:     cdm.VisitTypeClaim,
		}
	}
	return visits, nil
}

// GroupVisits indexes visits by owning person, keeping table order
// within each person.
func GroupVisits(visits []cdm.Visit) map[int64][]cdm.Visit {
	byPerson := make(map[int64][]cdm.Visit)
	for _, v := range visits {
		byPerson[v.PersonID] = append(byPerson[v.PersonID], v)
	}
	return byPerson
}

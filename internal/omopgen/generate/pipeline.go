package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/ids"
	"github.com/vaibhaw-/omopgen/internal/omopgen/logger"
	"github.com/vaibhaw-/omopgen/internal/omopgen/sampler"
)

// ErrInvalidCount is returned for negative person or visit counts.
var ErrInvalidCount = errors.New("invalid entity count")

// Options controls a generation run.
type Options struct {
	Persons int
	Visits  int
	Ranges  ids.Ranges
	Rules   VisitRules
	// LinkThemes makes each person's drug theme equal to their condition
	// theme. When false the two are drawn independently.
	LinkThemes bool
	// Now fixes the calendar year used for birth years. Zero means time.Now().
	Now time.Time
}

// DefaultOptions returns 10,000 persons and 50,000 visits.
func DefaultOptions() Options {
	return Options{
		Persons: 10000,
		Visits:  50000,
		Ranges:  ids.DefaultRanges(),
		Rules:   DefaultVisitRules(),
	}
}

// Validate checks counts, identifier ranges and visit rules.
func (o Options) Validate() error {
	if o.Persons < 0 || o.Visits < 0 {
		return fmt.Errorf("persons=%d visits=%d: %w", o.Persons, o.Visits, ErrInvalidCount)
	}
	if err := o.Ranges.Validate(); err != nil {
		return err
	}
	return o.Rules.Validate()
}

// Dataset is the in-memory result of one run.
type Dataset struct {
	Seed            uint64
	Persons         []cdm.Person
	Visits          []cdm.Visit
	Conditions      []cdm.ConditionOccurrence
	Drugs           []cdm.DrugExposure
	Measurements    []cdm.Measurement
	ConditionThemes Assignment
	DrugThemes      Assignment
}

// PersonIDs returns person identifiers in table order.
func (d *Dataset) PersonIDs() []int64 {
	out := make([]int64, len(d.Persons))
	for i, p := range d.Persons {
		out[i] = p.PersonID
	}
	return out
}

// Tables returns the five tables in dependency order.
func (d *Dataset) Tables() []cdm.Table {
	return []cdm.Table{
		cdm.NewTable(cdm.PersonTable, d.Persons),
		cdm.NewTable(cdm.VisitOccurrenceTable, d.Visits),
		cdm.NewTable(cdm.ConditionOccurrenceTable, d.Conditions),
		cdm.NewTable(cdm.DrugExposureTable, d.Drugs),
		cdm.NewTable(cdm.MeasurementTable, d.Measurements),
	}
}

// Run generates persons, then visits, then conditions, drugs and
// measurements. Each stage is fully materialised before the next one
// starts; ctx is checked between stages.
func Run(ctx context.Context, s *sampler.Sampler, cat *catalog.Catalog, opts Options) (*Dataset, error) {
	log := logger.L()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	start := time.Now()
	log.Infow("starting generation", "persons", opts.Persons, "visits", opts.Visits,
		"seed", s.Seed(), "link_themes", opts.LinkThemes)

	ds := &Dataset{Seed: s.Seed()}

	personRange, err := opts.Ranges.Get(ids.Person)
	if err != nil {
		return nil, err
	}
	personIDs, err := personRange.Allocate(opts.Persons)
	if err != nil {
		return nil, err
	}
	if ds.Persons, err = Persons(s, cat.Demographics, personIDs, now); err != nil {
		return nil, fmt.Errorf("person: %w", err)
	}
	log.Infow("persons generated", "count", len(ds.Persons))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	visitRange, err := opts.Ranges.Get(ids.VisitOccurrence)
	if err != nil {
		return nil, err
	}
	visitIDs, err := visitRange.Allocate(opts.Visits)
	if err != nil {
		return nil, err
	}
	if ds.Visits, err = Visits(s, opts.Rules, cat.VisitTypes, personIDs, visitIDs); err != nil {
		return nil, fmt.Errorf("visit_occurrence: %w", err)
	}
	byPerson := GroupVisits(ds.Visits)
	log.Infow("visits generated", "count", len(ds.Visits), "persons_with_visits", len(byPerson))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ds.ConditionThemes, err = AssignThemes(s, cat.ConditionClusters, personIDs); err != nil {
		return nil, fmt.Errorf("condition themes: %w", err)
	}
	counter, err := counterFor(opts.Ranges, ids.ConditionOccurrence)
	if err != nil {
		return nil, err
	}
	if ds.Conditions, err = Conditions(s, cat.ConditionClusters, ds.ConditionThemes, personIDs, byPerson, counter); err != nil {
		return nil, fmt.Errorf("condition_occurrence: %w", err)
	}
	log.Infow("conditions generated", "ids_issued", counter.Issued(), "count", len(ds.Conditions))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.LinkThemes {
		ds.DrugThemes, err = ds.ConditionThemes.Reuse(cat.DrugClusters)
	} else {
		ds.DrugThemes, err = AssignThemes(s, cat.DrugClusters, personIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("drug themes: %w", err)
	}
	if counter, err = counterFor(opts.Ranges, ids.DrugExposure); err != nil {
		return nil, err
	}
	if ds.Drugs, err = Drugs(s, cat.DrugClusters, ds.DrugThemes, personIDs, byPerson, counter); err != nil {
		return nil, fmt.Errorf("drug_exposure: %w", err)
	}
	log.Infow("drugs generated", "ids_issued", counter.Issued(), "count", len(ds.Drugs))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if counter, err = counterFor(opts.Ranges, ids.Measurement); err != nil {
		return nil, err
	}
	if ds.Measurements, err = Measurements(s, cat.Measurements, personIDs, byPerson, counter); err != nil {
		return nil, fmt.Errorf("measurement: %w", err)
	}
	log.Infow("measurements generated", "ids_issued", counter.Issued(), "count", len(ds.Measurements))

	log.Infow("completed generation", "duration", time.Since(start))
	return ds, nil
}

func counterFor(rs ids.Ranges, name string) (*ids.Counter, error) {
	r, err := rs.Get(name)
	if err != nil {
		return nil, err
	}
	return ids.NewCounter(r), nil
}

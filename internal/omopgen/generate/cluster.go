package generate

import (
	"fmt"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/sampler"
)

// Assignment maps a person identifier to a clinical theme name.
type Assignment map[int64]string

// AssignThemes gives every person exactly one theme of cl, drawn by the
// theme weights.
func AssignThemes(s *sampler.Sampler, cl catalog.Clusters, personIDs []int64) (Assignment, error) {
	picks, err := s.SampleCategorical(cl.ThemeWeights(), len(personIDs))
	if err != nil {
		return nil, fmt.Errorf("theme weights: %w", err)
	}
	out := make(Assignment, len(personIDs))
	for i, pid := range personIDs {
		out[pid] = cl.Themes[picks[i]].Name
	}
	return out, nil
}

// Reuse checks that every theme of a is defined in cl and returns a
// copy of a, so a second table can follow the first table's themes.
func (a Assignment) Reuse(cl catalog.Clusters) (Assignment, error) {
	out := make(Assignment, len(a))
	for pid, name := range a {
		if _, err := cl.Lookup(name); err != nil {
			return nil, fmt.Errorf("person %d: %w", pid, err)
		}
		out[pid] = name
	}
	return out, nil
}

// Counts returns the number of persons per theme.
func (a Assignment) Counts() map[string]int {
	out := make(map[string]int)
	for _, name := range a {
		out[name]++
	}
	return out
}

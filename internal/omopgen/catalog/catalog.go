package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vaibhaw-/omopgen/internal/omopgen/sampler"
)

var (
	// ErrUnknownTheme is returned when a theme name is not in a cluster catalogue.
	ErrUnknownTheme = errors.New("unknown clinical theme")
	// ErrInvalidCatalog is returned for structurally invalid catalogue content.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// AgeModel scales a Beta(Alpha, Beta) draw into [Min, Max] years.
type AgeModel struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
	Min   int     `yaml:"min"`
	Max   int     `yaml:"max"`
}

// Demographics holds the person-level distributions.
type Demographics struct {
	Gender    []sampler.Weighted `yaml:"gender"`
	Race      []sampler.Weighted `yaml:"race"`
	Ethnicity []sampler.Weighted `yaml:"ethnicity"`
	Age       AgeModel           `yaml:"age"`
}

// Theme is a named clinical grouping with its own concept distribution.
type Theme struct {
	Name     string             `yaml:"name"`
	Weight   float64            `yaml:"weight"`
	Concepts []sampler.Weighted `yaml:"concepts"`
}

// Clusters is a catalogue of themes for one table.
type Clusters struct {
	Themes []Theme `yaml:"themes"`
}

// ThemeWeights returns the theme distribution keyed by theme index.
func (c Clusters) ThemeWeights() []sampler.Weighted {
	ws := make([]sampler.Weighted, len(c.Themes))
	for i, th := range c.Themes {
		ws[i] = sampler.Weighted{Value: int64(i), Weight: th.Weight, Label: th.Name}
	}
	return ws
}

// Lookup returns the theme called name.
func (c Clusters) Lookup(name string) (Theme, error) {
	for _, th := range c.Themes {
		if th.Name == name {
			return th, nil
		}
	}
	return Theme{}, fmt.Errorf("%q: %w", name, ErrUnknownTheme)
}

// Names returns theme names in catalogue order.
func (c Clusters) Names() []string {
	out := make([]string, len(c.Themes))
	for i, th := range c.Themes {
		out[i] = th.Name
	}
	return out
}

// MeasurementDef describes one measurement attempted at every visit.
type MeasurementDef struct {
	Name          string  `yaml:"name"`
	ConceptID     int64   `yaml:"concept_id"`
	UnitConceptID int64   `yaml:"unit_concept_id"`
	Mean          float64 `yaml:"mean"`
	Std           float64 `yaml:"std"`
	Probability   float64 `yaml:"probability"`
}

// Catalog is the clinical content the generators are parametric over.
type Catalog struct {
	Demographics      Demographics       `yaml:"demographics"`
	VisitTypes        []sampler.Weighted `yaml:"visit_types"`
	ConditionClusters Clusters           `yaml:"condition_clusters"`
	DrugClusters      Clusters           `yaml:"drug_clusters"`
	Measurements      []MeasurementDef   `yaml:"measurements"`
}

// Load decodes and validates a YAML catalogue.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a catalogue from path. An empty path yields Default().
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Dump writes c as YAML.
func Dump(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode catalog YAML: %w", err)
	}
	return enc.Close()
}

// Validate checks every distribution in the catalogue.
func (c *Catalog) Validate() error {
	dists := []struct {
		name string
		ws   []sampler.Weighted
	}{
		{"demographics.gender", c.Demographics.Gender},
		{"demographics.race", c.Demographics.Race},
		{"demographics.ethnicity", c.Demographics.Ethnicity},
		{"visit_types", c.VisitTypes},
	}
	for _, d := range dists {
		if err := sampler.ValidateWeights(d.ws); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}

	age := c.Demographics.Age
	if age.Alpha <= 0 || age.Beta <= 0 {
		return fmt.Errorf("demographics.age: alpha and beta must be positive: %w", ErrInvalidCatalog)
	}
	if age.Min < 0 || age.Max < age.Min {
		return fmt.Errorf("demographics.age: range [%d,%d]: %w", age.Min, age.Max, ErrInvalidCatalog)
	}

	if err := validateClusters("condition_clusters", c.ConditionClusters); err != nil {
		return err
	}
	if err := validateClusters("drug_clusters", c.DrugClusters); err != nil {
		return err
	}

	seen := map[int64]struct{}{}
	for i, m := range c.Measurements {
		if m.Name == "" {
			return fmt.Errorf("measurement %d missing name: %w", i, ErrInvalidCatalog)
		}
		if m.Probability < 0 || m.Probability > 1 {
			return fmt.Errorf("measurement %q probability %v outside [0,1]: %w", m.Name, m.Probability, ErrInvalidCatalog)
		}
		if m.Std < 0 {
			return fmt.Errorf("measurement %q negative std: %w", m.Name, ErrInvalidCatalog)
		}
		if _, dup := seen[m.ConceptID]; dup {
			return fmt.Errorf("measurement %q duplicates concept %d: %w", m.Name, m.ConceptID, ErrInvalidCatalog)
		}
		seen[m.ConceptID] = struct{}{}
	}
	return nil
}

func validateClusters(label string, cl Clusters) error {
	if err := sampler.ValidateWeights(cl.ThemeWeights()); err != nil {
		return fmt.Errorf("%s theme weights: %w", label, err)
	}
	names := map[string]struct{}{}
	for i, th := range cl.Themes {
		if th.Name == "" {
			return fmt.Errorf("%s theme %d missing name: %w", label, i, ErrInvalidCatalog)
		}
		if _, dup := names[th.Name]; dup {
			return fmt.Errorf("%s theme %q defined twice: %w", label, th.Name, ErrInvalidCatalog)
		}
		names[th.Name] = struct{}{}
		if err := sampler.ValidateWeights(th.Concepts); err != nil {
			return fmt.Errorf("%s theme %q: %w", label, th.Name, err)
		}
	}
	return nil
}

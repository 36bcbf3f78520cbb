package ids

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrRangeOverlap is returned when two entity ranges share identifiers.
	ErrRangeOverlap = errors.New("identifier ranges overlap")
	// ErrRangeExhausted is returned when a range has no identifiers left.
	ErrRangeExhausted = errors.New("identifier range exhausted")
	// ErrInvalidRange is returned for a negative base, a non-positive width,
	// or a range whose end does not fit in an int64.
	ErrInvalidRange = errors.New("invalid identifier range")
)

// Entity type names used as range keys.
const (
	Person              = "person"
	VisitOccurrence     = "visit_occurrence"
	ConditionOccurrence = "condition_occurrence"
	DrugExposure        = "drug_exposure"
	Measurement         = "measurement"
)

// DefaultWidth is the number of identifiers reserved per entity type.
const DefaultWidth int64 = 1_000_000_000

// Allocate returns n consecutive identifiers starting at base.
func Allocate(n int, base int64) []int64 {
	if n <= 0 {
		return []int64{}
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = base + int64(i)
	}
	return out
}

// Range reserves [Base, Base+Width) for one entity type.
type Range struct {
	Name  string
	Base  int64
	Width int64
}

// End returns the first identifier past the range.
func (r Range) End() int64 {
	return r.Base + r.Width
}

// Allocate returns n identifiers from the start of the range.
func (r Range) Allocate(n int) ([]int64, error) {
	if int64(n) > r.Width {
		return nil, fmt.Errorf("%s: need %d identifiers, range holds %d: %w", r.Name, n, r.Width, ErrRangeExhausted)
	}
	return Allocate(n, r.Base), nil
}

func (r Range) validate() error {
	if r.Base < 0 || r.Width <= 0 {
		return fmt.Errorf("%s: base=%d width=%d: %w", r.Name, r.Base, r.Width, ErrInvalidRange)
	}
	if r.Width > math.MaxInt64-r.Base {
		return fmt.Errorf("%s: base=%d width=%d overflows int64: %w", r.Name, r.Base, r.Width, ErrInvalidRange)
	}
	return nil
}

// Ranges maps entity type to its reserved range.
type Ranges map[string]Range

// DefaultRanges gives each entity type its own billion-wide block.
func DefaultRanges() Ranges {
	names := []string{Person, VisitOccurrence, ConditionOccurrence, DrugExposure, Measurement}
	rs := make(Ranges, len(names))
	for i, name := range names {
		rs[name] = Range{Name: name, Base: int64(i+1) * DefaultWidth, Width: DefaultWidth}
	}
	return rs
}

// Get returns the range for name, or an error when it is not configured.
func (rs Ranges) Get(name string) (Range, error) {
	r, ok := rs[name]
	if !ok {
		return Range{}, fmt.Errorf("no identifier range for %q: %w", name, ErrInvalidRange)
	}
	if r.Name == "" {
		r.Name = name
	}
	return r, nil
}

// Validate checks every range is well formed and that no two overlap.
func (rs Ranges) Validate() error {
	sorted := make([]Range, 0, len(rs))
	for name, r := range rs {
		if r.Name == "" {
			r.Name = name
		}
		if err := r.validate(); err != nil {
			return err
		}
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Base == sorted[j].Base {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Base < sorted[j].Base
	})
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Base < prev.End() {
			return fmt.Errorf("%s [%d,%d) and %s [%d,%d): %w",
				prev.Name, prev.Base, prev.End(), cur.Name, cur.Base, cur.End(), ErrRangeOverlap)
		}
	}
	return nil
}

// Counter issues identifiers one at a time, for tables whose final size
// is only known after generation.
type Counter struct {
	r    Range
	next int64
}

// NewCounter starts a counter at the base of r.
func NewCounter(r Range) *Counter {
	return &Counter{r: r, next: r.Base}
}

// Next returns the next identifier.
func (c *Counter) Next() (int64, error) {
	if c.next-c.r.Base >= c.r.Width {
		return 0, fmt.Errorf("%s after %d identifiers: %w", c.r.Name, c.r.Width, ErrRangeExhausted)
	}
	id := c.next
	c.next++
	return id, nil
}

// Issued reports how many identifiers have been handed out.
func (c *Counter) Issued() int64 {
	return c.next - c.r.Base
}

// Package sampler draws categorical and continuous values from one
// explicit pseudo-random stream, so a seeded run is reproducible.
package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrWeightsSum is returned when a categorical distribution does not sum to 1.
	ErrWeightsSum = errors.New("distribution weights do not sum to 1")
	// ErrNegativeWeight is returned for a weight below zero.
	ErrNegativeWeight = errors.New("distribution has a negative weight")
	// ErrEmptyDistribution is returned for a distribution with no categories.
	ErrEmptyDistribution = errors.New("distribution has no categories")
)

// SumTolerance is the allowed deviation of a weight sum from 1.0.
const SumTolerance = 1e-6

// Weighted is one category of a categorical distribution.
type Weighted struct {
	Value  int64   `yaml:"value"`
	Weight float64 `yaml:"weight"`
	Label  string  `yaml:"label,omitempty"`
}

// ValidateWeights checks that ws is a usable probability distribution.
func ValidateWeights(ws []Weighted) error {
	if len(ws) == 0 {
		return ErrEmptyDistribution
	}
	sum := 0.0
	for _, w := range ws {
		if w.Weight < 0 || math.IsNaN(w.Weight) {
			return fmt.Errorf("value %d weight %v: %w", w.Value, w.Weight, ErrNegativeWeight)
		}
		sum += w.Weight
	}
	if math.Abs(sum-1.0) > SumTolerance {
		return fmt.Errorf("sum=%.9f: %w", sum, ErrWeightsSum)
	}
	return nil
}

// Sampler is a handle on a single random stream. It is not safe for
// concurrent use.
type Sampler struct {
	seed  uint64
	src   *rand.PCG
	faker *gofakeit.Faker
}

// New returns a sampler seeded with seed. A zero seed is replaced by one
// derived from the clock; Seed reports the value actually used.
func New(seed uint64) *Sampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Sampler{
		seed:  seed,
		src:   src,
		faker: gofakeit.NewFaker(src, false),
	}
}

// Seed returns the seed of the underlying stream.
func (s *Sampler) Seed() uint64 {
	return s.seed
}

// SampleCategorical draws n values independently from ws.
func (s *Sampler) SampleCategorical(ws []Weighted, n int) ([]int64, error) {
	if err := ValidateWeights(ws); err != nil {
		return nil, err
	}
	weights := make([]float64, len(ws))
	for i, w := range ws {
		weights[i] = w.Weight
	}
	cat := distuv.NewCategorical(weights, s.src)
	out := make([]int64, n)
	for i := range out {
		out[i] = ws[int(cat.Rand())].Value
	}
	return out, nil
}

// Categorical draws a single value from ws.
func (s *Sampler) Categorical(ws []Weighted) (int64, error) {
	out, err := s.SampleCategorical(ws, 1)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// SampleBeta draws n values in [0,1] from Beta(alpha, beta).
func (s *Sampler) SampleBeta(alpha, beta float64, n int) []float64 {
	d := distuv.Beta{Alpha: alpha, Beta: beta, Src: s.src}
	out := make([]float64, n)
	for i := range out {
		out[i] = d.Rand()
	}
	return out
}

// SampleNormal draws n values from N(mean, std). Results are not clamped.
func (s *Sampler) SampleNormal(mean, std float64, n int) []float64 {
	d := distuv.Normal{Mu: mean, Sigma: std, Src: s.src}
	out := make([]float64, n)
	for i := range out {
		out[i] = d.Rand()
	}
	return out
}

// Normal draws one value from N(mean, std).
func (s *Sampler) Normal(mean, std float64) float64 {
	return s.SampleNormal(mean, std, 1)[0]
}

// IntRange returns a uniform integer in [min, max].
func (s *Sampler) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return s.faker.Number(min, max)
}

// Choice returns a uniform index in [0, n).
func (s *Sampler) Choice(n int) int {
	return s.IntRange(0, n-1)
}

// Bernoulli reports success with probability p.
func (s *Sampler) Bernoulli(p float64) bool {
	return distuv.Bernoulli{P: p, Src: s.src}.Rand() == 1
}

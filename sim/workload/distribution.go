package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// Sampler draws non-negative integer values for one record field.
type Sampler interface {
	Sample(rng *rand.Rand) int64
}

// ConstantSampler always returns the same value.
type ConstantSampler struct {
	value int64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) int64 { return s.value }

// UniformSampler draws uniformly from [min, max].
type UniformSampler struct {
	min, max int64
}

func (s *UniformSampler) Sample(rng *rand.Rand) int64 {
	if s.min == s.max {
		return s.min
	}
	return s.min + rng.Int63n(s.max-s.min+1)
}

// ExponentialSampler produces exponentially distributed values clamped to [min, max].
type ExponentialSampler struct {
	mean     float64
	min, max int64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) int64 {
	val := int64(math.Round(rng.ExpFloat64() * s.mean))
	return min(s.max, max(s.min, val))
}

// DistSpec describes the distribution of one generated field.
type DistSpec struct {
	Type  string  `yaml:"type"` // constant, uniform, exponential
	Value int64   `yaml:"value,omitempty"`
	Min   int64   `yaml:"min,omitempty"`
	Max   int64   `yaml:"max,omitempty"`
	Mean  float64 `yaml:"mean,omitempty"`
}

var validDistTypes = map[string]bool{
	"constant":    true,
	"uniform":     true,
	"exponential": true,
}

// Validate checks the distribution type and parameter ranges.
func (d DistSpec) Validate() error {
	if !validDistTypes[d.Type] {
		return fmt.Errorf("unknown distribution type %q; valid: constant, uniform, exponential", d.Type)
	}
	switch d.Type {
	case "constant":
		if d.Value < 0 {
			return fmt.Errorf("constant value must be non-negative, got %d", d.Value)
		}
	case "uniform":
		if d.Min < 0 || d.Max < d.Min {
			return fmt.Errorf("uniform range must satisfy 0 <= min <= max, got [%d, %d]", d.Min, d.Max)
		}
	case "exponential":
		if d.Mean <= 0 || math.IsNaN(d.Mean) || math.IsInf(d.Mean, 0) {
			return fmt.Errorf("exponential mean must be a finite positive number, got %f", d.Mean)
		}
		if d.Min < 0 || (d.Max != 0 && d.Max < d.Min) {
			return fmt.Errorf("exponential clamp must satisfy 0 <= min <= max, got [%d, %d]", d.Min, d.Max)
		}
	}
	return nil
}

// NewSampler creates a Sampler from a validated DistSpec.
func NewSampler(d DistSpec) (Sampler, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	switch d.Type {
	case "constant":
		return &ConstantSampler{value: d.Value}, nil
	case "uniform":
		return &UniformSampler{min: d.Min, max: d.Max}, nil
	default:
		upper := d.Max
		if upper == 0 {
			upper = math.MaxInt64
		}
		return &ExponentialSampler{mean: d.Mean, min: d.Min, max: upper}, nil
	}
}

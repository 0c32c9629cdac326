package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/partsim/partsim/sim/trace"
)

// Config holds everything one simulation run needs besides the process list.
// Loadable from a YAML file; zero values fall back to
// DefaultConfig (priority policy, quantum 100, six partitions).
type Config struct {
	Policy     string  `yaml:"policy" json:"policy"`         // see PolicyNames()
	Quantum    int64   `yaml:"quantum" json:"quantum"`       // ticks; 0 = DefaultQuantum
	Partitions []int64 `yaml:"partitions" json:"partitions"` // capacities by partition number; empty = DefaultPartitionCapacities
	Allocation string  `yaml:"allocation" json:"allocation"` // "scan" (default) or "best-fit"
	Trace      string  `yaml:"trace" json:"trace"`           // "none" (default) or "decisions"
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Policy:     PolicyPriority,
		Quantum:    DefaultQuantum,
		Partitions: append([]int64(nil), DefaultPartitionCapacities...),
		Allocation: string(AllocationScan),
		Trace:      string(trace.TraceLevelNone),
	}
}

// WithDefaults returns a copy with unset fields filled in.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Policy == "" {
		c.Policy = d.Policy
	}
	c.Policy = CanonicalPolicyName(c.Policy)
	if c.Quantum == 0 {
		c.Quantum = d.Quantum
	}
	if len(c.Partitions) == 0 {
		c.Partitions = d.Partitions
	}
	if c.Allocation == "" {
		c.Allocation = d.Allocation
	}
	if c.Trace == "" {
		c.Trace = d.Trace
	}
	return c
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks that all names and parameter ranges are valid.
func (c Config) Validate() error {
	if !IsValidPolicy(c.Policy) {
		return fmt.Errorf("%w: unknown policy %q; valid: %v", ErrInvalidConfig, c.Policy, PolicyNames())
	}
	if c.Quantum < 0 {
		return fmt.Errorf("%w: quantum must be non-negative, got %d", ErrInvalidConfig, c.Quantum)
	}
	for i, capacity := range c.Partitions {
		if capacity <= 0 {
			return fmt.Errorf("%w: partition %d capacity must be positive, got %d", ErrInvalidConfig, i+1, capacity)
		}
	}
	if !IsValidAllocationStrategy(c.Allocation) {
		return fmt.Errorf("%w: unknown allocation strategy %q; valid: scan, best-fit", ErrInvalidConfig, c.Allocation)
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("%w: unknown trace level %q; valid: none, decisions", ErrInvalidConfig, c.Trace)
	}
	return nil
}

// LoadConfig reads and parses a YAML run configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig strictly decodes YAML run configuration bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &cfg, nil
}

package workload

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/partsim/partsim/sim"
)

// WorkloadSpec is the YAML form of a workload: either an explicit process
// list, a generator description, or both (generated processes follow the
// listed ones).
type WorkloadSpec struct {
	Version   string            `yaml:"version"`
	Processes []sim.ProcessSpec `yaml:"processes"`
	Generator *GeneratorSpec    `yaml:"generator,omitempty"`
}

// ParseWorkloadSpec strictly decodes YAML workload bytes.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func ParseWorkloadSpec(data []byte) (*WorkloadSpec, error) {
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	if spec.Version == "" {
		spec.Version = "1"
	}
	return &spec, nil
}

// LoadWorkloadSpec reads and parses a YAML workload file.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	return ParseWorkloadSpec(data)
}

// Validate checks the generator description, if any.
func (s *WorkloadSpec) Validate() error {
	if s.Version != "1" {
		return fmt.Errorf("unsupported workload spec version %q", s.Version)
	}
	if s.Generator != nil {
		if err := s.Generator.Validate(); err != nil {
			return fmt.Errorf("generator: %w", err)
		}
	}
	if len(s.Processes) == 0 && s.Generator == nil {
		return fmt.Errorf("at least one process or a generator is required")
	}
	return nil
}

// Specs returns the listed processes followed by the generated ones.
// Generated IDs continue after the highest listed ID.
func (s *WorkloadSpec) Specs() ([]sim.ProcessSpec, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}
	specs := append([]sim.ProcessSpec(nil), s.Processes...)
	if s.Generator != nil {
		firstID := 1
		for _, p := range specs {
			firstID = max(firstID, p.ID+1)
		}
		gen, err := Generate(s.Generator, firstID)
		if err != nil {
			return nil, err
		}
		specs = append(specs, gen...)
	}
	return specs, nil
}

// IsYAML reports whether a workload location names a YAML document.
func IsYAML(location string) bool {
	ext := strings.ToLower(path.Ext(location))
	return ext == ".yaml" || ext == ".yml"
}

// Decode parses workload bytes read from location, choosing the YAML or the
// six-field text format by file extension, and validates the records.
func Decode(location string, data []byte) ([]sim.ProcessSpec, error) {
	var (
		specs []sim.ProcessSpec
		err   error
	)
	if IsYAML(location) {
		var spec *WorkloadSpec
		if spec, err = ParseWorkloadSpec(data); err != nil {
			return nil, err
		}
		specs, err = spec.Specs()
	} else {
		specs, err = ParseRecords(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	if err := sim.ValidateSpecs(specs); err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return specs, nil
}

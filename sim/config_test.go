package sim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_WithDefaults_FillsZeroFields(t *testing.T) {
	// GIVEN an empty configuration
	cfg := Config{}.WithDefaults()

	// THEN it matches the classic six-partition setup
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_WithDefaults_CanonicalizesAlias(t *testing.T) {
	cfg := Config{Policy: "ep-rr", Quantum: 4}.WithDefaults()
	assert.Equal(t, PolicyPreemptivePriority, cfg.Policy)
	assert.Equal(t, int64(4), cfg.Quantum)
}

func TestConfig_WithDefaults_DoesNotShareDefaultTable(t *testing.T) {
	cfg := Config{}.WithDefaults()
	cfg.Partitions[0] = 1
	assert.Equal(t, int64(40), DefaultPartitionCapacities[0])
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown policy", Config{Policy: "lottery"}},
		{"negative quantum", Config{Quantum: -1}},
		{"zero partition", Config{Partitions: []int64{10, 0}}},
		{"unknown allocation", Config{Allocation: "worst-fit"}},
		{"unknown trace level", Config{Trace: "verbose"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.WithDefaults().Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestParseConfig_Valid(t *testing.T) {
	// GIVEN a YAML run configuration
	data := []byte(`
policy: round-robin
quantum: 25
partitions: [30, 20, 10]
allocation: best-fit
trace: decisions
`)

	// WHEN parsed
	cfg, err := ParseConfig(data)

	// THEN every field is populated
	require.NoError(t, err)
	assert.Equal(t, "round-robin", cfg.Policy)
	assert.Equal(t, int64(25), cfg.Quantum)
	assert.Equal(t, []int64{30, 20, 10}, cfg.Partitions)
	assert.Equal(t, "best-fit", cfg.Allocation)
	assert.Equal(t, "decisions", cfg.Trace)
	assert.NoError(t, cfg.WithDefaults().Validate())
}

func TestParseConfig_UnknownKey_Rejected(t *testing.T) {
	// GIVEN a typo in a key name
	_, err := ParseConfig([]byte("quantom: 5\n"))

	// THEN strict parsing reports it
	assert.Error(t, err)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy: rr\n"), 0o644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, PolicyRoundRobin, cfg.WithDefaults().Policy)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// Package testutil provides shared test infrastructure for the partsim simulator.
// It holds the golden scenario types and assertion helpers used by the sim/
// and cmd/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenProcess is one six-field input record of a golden scenario.
type GoldenProcess struct {
	ID         int   `json:"id"`
	Size       int64 `json:"size"`
	Arrival    int64 `json:"arrival"`
	Processing int64 `json:"processing"`
	IOFreq     int64 `json:"io_freq"`
	IODuration int64 `json:"io_duration"`
}

// GoldenTestCase is one scenario with its expected transition log.
// Transitions are rendered as "<tick> <pid> <FROM> <TO>".
type GoldenTestCase struct {
	Name        string          `json:"name"`
	Policy      string          `json:"policy"`
	Quantum     int64           `json:"quantum"`
	Processes   []GoldenProcess `json:"processes"`
	Transitions []string        `json:"transitions"`
	FinalTick   int64           `json:"final_tick"`
	Unadmitted  []int           `json:"unadmitted"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

package workload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsim/partsim/sim"
)

func TestParseWorkloadSpec_ExplicitProcesses(t *testing.T) {
	data := []byte(`
processes:
  - {id: 1, size: 10, arrival: 0, processing: 5, io_freq: 0, io_duration: 0}
  - {id: 2, size: 20, arrival: 1, processing: 8, io_freq: 2, io_duration: 3}
`)

	spec, err := ParseWorkloadSpec(data)
	require.NoError(t, err)
	specs, err := spec.Specs()

	require.NoError(t, err)
	assert.Equal(t, "1", spec.Version)
	assert.Equal(t, []sim.ProcessSpec{
		{ID: 1, Size: 10, ProcessingTime: 5},
		{ID: 2, Size: 20, ArrivalTime: 1, ProcessingTime: 8, IOFrequency: 2, IODuration: 3},
	}, specs)
}

func TestParseWorkloadSpec_UnknownKey_Rejected(t *testing.T) {
	_, err := ParseWorkloadSpec([]byte("processes:\n  - {id: 1, sise: 10}\n"))
	assert.Error(t, err)
}

func TestWorkloadSpec_Validate(t *testing.T) {
	assert.Error(t, (&WorkloadSpec{Version: "1"}).Validate(), "empty workload")
	assert.Error(t, (&WorkloadSpec{Version: "9", Processes: []sim.ProcessSpec{{ID: 1}}}).Validate(), "bad version")
	bad := &WorkloadSpec{Version: "1", Generator: &GeneratorSpec{Count: 0}}
	assert.Error(t, bad.Validate(), "bad generator")
}

func TestWorkloadSpec_Specs_GeneratedIDsFollowListed(t *testing.T) {
	spec := &WorkloadSpec{
		Version:   "1",
		Processes: []sim.ProcessSpec{{ID: 10, Size: 1, ProcessingTime: 1}},
		Generator: &GeneratorSpec{
			Count:        3,
			Size:         DistSpec{Type: "constant", Value: 4},
			InterArrival: DistSpec{Type: "constant", Value: 2},
			Processing:   DistSpec{Type: "constant", Value: 6},
			IOFrequency:  DistSpec{Type: "constant", Value: 0},
			IODuration:   DistSpec{Type: "constant", Value: 0},
		},
	}

	specs, err := spec.Specs()

	require.NoError(t, err)
	require.Len(t, specs, 4)
	assert.Equal(t, []int{10, 11, 12, 13}, []int{specs[0].ID, specs[1].ID, specs[2].ID, specs[3].ID})
	assert.Equal(t, int64(4), specs[3].ArrivalTime)
}

func TestDecode_ChoosesFormatByExtension(t *testing.T) {
	text, err := Decode("input.txt", []byte("1, 10, 0, 5, 0, 0\n"))
	require.NoError(t, err)
	assert.Len(t, text, 1)

	yml, err := Decode("dir/input.YML", []byte("processes:\n  - {id: 3, size: 1, arrival: 0, processing: 1, io_freq: 0, io_duration: 0}\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, yml[0].ID)
}

func TestDecode_ValidatesRecords(t *testing.T) {
	_, err := Decode("input.txt", []byte("1, 10, 0, 5, 0, 0\n1, 5, 0, 5, 0, 0\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sim.ErrDuplicateID))
}

func TestLoadWorkloadSpec_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.yaml")
	require.NoError(t, os.WriteFile(path, []byte("processes:\n  - {id: 1, size: 1, arrival: 0, processing: 1, io_freq: 0, io_duration: 0}\n"), 0o644))

	spec, err := LoadWorkloadSpec(path)

	require.NoError(t, err)
	assert.Len(t, spec.Processes, 1)
}

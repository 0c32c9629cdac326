// Defines the Process record that models one job's lifecycle in the simulation.
// Tracks arrival, CPU work remaining, memory partition, I/O cadence, and the
// bookkeeping needed to compute per-process metrics.

package sim

import (
	"fmt"
)

// ProcessState represents the lifecycle state of a process.
type ProcessState int

const (
	StateNew ProcessState = iota
	StateReady
	StateRunning
	StateWaiting
	StateTerminated
)

var stateNames = map[ProcessState]string{
	StateNew:        "NEW",
	StateReady:      "READY",
	StateRunning:    "RUNNING",
	StateWaiting:    "WAITING",
	StateTerminated: "TERMINATED",
}

func (s ProcessState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ProcessState(%d)", int(s))
}

// MarshalText renders the state by name so JSON results stay readable.
func (s ProcessState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// validTransitions is the lifecycle state machine. Anything not listed is a bug.
var validTransitions = map[ProcessState][]ProcessState{
	StateNew:     {StateReady},
	StateReady:   {StateRunning},
	StateRunning: {StateWaiting, StateReady, StateTerminated},
	StateWaiting: {StateReady},
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
func CanTransition(from, to ProcessState) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ProcessSpec is one input record: the six fields handed to the engine by the
// workload parser.
type ProcessSpec struct {
	ID             int   `yaml:"id" json:"id"`
	Size           int64 `yaml:"size" json:"size"`
	ArrivalTime    int64 `yaml:"arrival" json:"arrival"`
	ProcessingTime int64 `yaml:"processing" json:"processing"`
	IOFrequency    int64 `yaml:"io_freq" json:"io_freq"`
	IODuration     int64 `yaml:"io_duration" json:"io_duration"`
}

// Process models a single process's lifecycle in the simulation.
// The Simulator owns every Process; queues only hold references into its store.
type Process struct {
	ID   int   `json:"id"`   // Unique, stable for the run
	Size int64 `json:"size"` // Requested memory, in partition size units

	RequestedArrival int64 `json:"requested_arrival"` // Arrival time as given in the input
	ArrivalTime      int64 `json:"arrival"`           // Next admission attempt; advanced by one on every failed allocation

	StartTime     Optional[int64] `json:"start_time"` // Tick of the most recent dispatch; unset while not running
	TotalTime     int64           `json:"total_time"` // CPU work needed, fixed at creation
	RemainingTime int64           `json:"remaining_time"`
	Partition     Optional[int]   `json:"partition"` // Partition number while admitted
	State         ProcessState    `json:"state"`

	IOFrequency int64           `json:"io_freq"`     // Work units between I/O bursts; 0 disables I/O
	IODuration  int64           `json:"io_duration"` // Ticks one I/O burst takes
	IOStart     Optional[int64] `json:"io_start"`    // Boundary tick at which the current I/O burst began

	AdmittedAt    Optional[int64] `json:"admitted_at"`
	FirstDispatch Optional[int64] `json:"first_dispatch"`
	FinishedAt    Optional[int64] `json:"finished_at"`
	Dispatches    int             `json:"dispatches"`
	Preemptions   int             `json:"preemptions"`
	IOBursts      int             `json:"io_bursts"`
	Deferrals     int             `json:"deferrals"`   // Failed admission attempts
	ReadyTicks    int64           `json:"ready_ticks"` // Ticks spent in the ready queue while another process ran
}

// NewProcess constructs a Process in StateNew from an input record.
func NewProcess(spec ProcessSpec) *Process {
	return &Process{
		ID:               spec.ID,
		Size:             spec.Size,
		RequestedArrival: spec.ArrivalTime,
		ArrivalTime:      spec.ArrivalTime,
		StartTime:        None[int64](),
		TotalTime:        spec.ProcessingTime,
		RemainingTime:    spec.ProcessingTime,
		Partition:        None[int](),
		State:            StateNew,
		IOFrequency:      spec.IOFrequency,
		IODuration:       spec.IODuration,
	}
}

// WorkDone returns the number of CPU units executed so far.
func (p *Process) WorkDone() int64 {
	return p.TotalTime - p.RemainingTime
}

// IODue reports whether the work just completed lands on an I/O boundary.
func (p *Process) IODue() bool {
	done := p.WorkDone()
	return p.IOFrequency > 0 && done > 0 && done%p.IOFrequency == 0
}

// IOElapsed reports whether the current I/O burst has finished by now.
func (p *Process) IOElapsed(now int64) bool {
	start, ok := p.IOStart.Get()
	if !ok {
		panic(fmt.Sprintf("IOElapsed: process %d is not doing I/O", p.ID))
	}
	return now-start >= p.IODuration
}

// setState moves the process along a lifecycle edge. Illegal edges, and any
// change to a terminated record, indicate an engine bug.
func (p *Process) setState(to ProcessState) {
	if !CanTransition(p.State, to) {
		panic(fmt.Sprintf("process %d: illegal transition %s -> %s", p.ID, p.State, to))
	}
	p.State = to
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (ID: %d, State: %s, Remaining: %d/%d, Partition: %s)",
		p.ID, p.State, p.RemainingTime, p.TotalTime, p.Partition)
}

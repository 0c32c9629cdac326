package sim

import (
	"fmt"

	"github.com/partsim/partsim/sim/trace"
)

// TransitionEvent records one lifecycle transition of one process.
// Tick is the time the transition takes effect: I/O starts and terminations
// are stamped at the boundary after the tick whose work caused them.
type TransitionEvent struct {
	Tick int64        `json:"tick"`
	PID  int          `json:"pid"`
	From ProcessState `json:"from"`
	To   ProcessState `json:"to"`
}

func (e TransitionEvent) String() string {
	return fmt.Sprintf("[tick %d] pid %d: %s -> %s", e.Tick, e.PID, e.From, e.To)
}

// Result is everything one simulation run produces.
type Result struct {
	RunID       string            `json:"run_id"`
	Policy      string            `json:"policy"`
	Transitions []TransitionEvent `json:"transitions"`
	Memory      []MemorySnapshot  `json:"memory"`
	// Processes holds the final record of every input process, in input order.
	Processes []*Process `json:"processes"`
	// Unadmitted lists PIDs whose size exceeds every partition; they never leave NEW.
	Unadmitted []int                  `json:"unadmitted"`
	FinalTick  int64                  `json:"final_tick"`
	Metrics    *Metrics               `json:"metrics"`
	Trace      *trace.SimulationTrace `json:"-"`
}

// TransitionsFor returns the events of one process, in log order.
func (r *Result) TransitionsFor(pid int) []TransitionEvent {
	var events []TransitionEvent
	for _, e := range r.Transitions {
		if e.PID == pid {
			events = append(events, e)
		}
	}
	return events
}

// Process returns the final record of pid, or nil.
func (r *Result) Process(pid int) *Process {
	for _, p := range r.Processes {
		if p.ID == pid {
			return p
		}
	}
	return nil
}

// Package trace provides decision-trace recording for scheduling analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// AdmissionRecord captures one admission attempt for an arriving process.
type AdmissionRecord struct {
	PID       int
	Clock     int64
	Admitted  bool
	Partition int // partition number granted; 0 when not admitted
	Reason    string
}

// DispatchRecord captures one READY -> RUNNING decision.
type DispatchRecord struct {
	PID        int
	Clock      int64
	Candidates []int // ready-queue PIDs in policy order at decision time
	Reason     string
}

// PreemptionRecord captures one RUNNING -> READY demotion.
type PreemptionRecord struct {
	PID        int
	Clock      int64
	SliceTicks int64 // ticks executed since the last dispatch
	Reason     string
}

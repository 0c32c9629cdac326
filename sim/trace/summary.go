package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	AdmissionAttempts int
	AdmittedCount     int
	DeferredCount     int
	DispatchCount     int
	PreemptionCount   int
	MaxReadyDepth     int            // longest candidate list seen at a dispatch
	PreemptionReasons map[string]int // reason -> count
	DispatchesPerPID  map[int]int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PreemptionReasons: make(map[string]int),
		DispatchesPerPID:  make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.AdmissionAttempts = len(st.Admissions)
	for _, a := range st.Admissions {
		if a.Admitted {
			summary.AdmittedCount++
		} else {
			summary.DeferredCount++
		}
	}

	summary.DispatchCount = len(st.Dispatches)
	for _, d := range st.Dispatches {
		summary.DispatchesPerPID[d.PID]++
		if len(d.Candidates) > summary.MaxReadyDepth {
			summary.MaxReadyDepth = len(d.Candidates)
		}
	}

	summary.PreemptionCount = len(st.Preemptions)
	for _, p := range st.Preemptions {
		summary.PreemptionReasons[p.Reason]++
	}

	return summary
}

package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	// GIVEN no trace at all
	// WHEN summarized
	summary := Summarize(nil)

	// THEN all counts are zero and maps are usable
	if summary.AdmissionAttempts != 0 || summary.DispatchCount != 0 || summary.PreemptionCount != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.PreemptionReasons == nil || summary.DispatchesPerPID == nil {
		t.Error("expected non-nil maps")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with mixed records
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordAdmission(AdmissionRecord{PID: 1, Admitted: true})
	st.RecordAdmission(AdmissionRecord{PID: 2, Admitted: false})
	st.RecordAdmission(AdmissionRecord{PID: 2, Admitted: true})
	st.RecordDispatch(DispatchRecord{PID: 1, Candidates: []int{1, 2}})
	st.RecordDispatch(DispatchRecord{PID: 2, Candidates: []int{2}})
	st.RecordDispatch(DispatchRecord{PID: 1, Candidates: []int{1, 2, 3}})
	st.RecordPreemption(PreemptionRecord{PID: 2, Reason: "higher-priority-ready"})
	st.RecordPreemption(PreemptionRecord{PID: 1, Reason: "quantum-expired"})
	st.RecordPreemption(PreemptionRecord{PID: 1, Reason: "quantum-expired"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.AdmissionAttempts != 3 || summary.AdmittedCount != 2 || summary.DeferredCount != 1 {
		t.Errorf("admission counts wrong: %+v", summary)
	}
	if summary.DispatchCount != 3 {
		t.Errorf("expected 3 dispatches, got %d", summary.DispatchCount)
	}
	if summary.DispatchesPerPID[1] != 2 || summary.DispatchesPerPID[2] != 1 {
		t.Errorf("unexpected per-PID dispatches: %v", summary.DispatchesPerPID)
	}
	if summary.MaxReadyDepth != 3 {
		t.Errorf("expected max ready depth 3, got %d", summary.MaxReadyDepth)
	}
	if summary.PreemptionReasons["quantum-expired"] != 2 || summary.PreemptionReasons["higher-priority-ready"] != 1 {
		t.Errorf("unexpected preemption reasons: %v", summary.PreemptionReasons)
	}
}

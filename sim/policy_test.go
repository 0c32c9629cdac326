package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func idsOf(ps []*Process) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestPriorityPolicies_OrderQueue_AscendingID(t *testing.T) {
	for _, policy := range []SchedulingPolicy{&PriorityPolicy{}, &PreemptivePriorityPolicy{Quantum: 10}} {
		// GIVEN a ready queue in arrival order
		ready := procs(5, 2, 9, 1)

		// WHEN ordered
		policy.OrderQueue(ready)

		// THEN the lowest ID is first and is dispatched
		assert.Equal(t, []int{1, 2, 5, 9}, idsOf(ready), policy.Name())
		assert.Equal(t, 0, policy.SelectDispatch(ready), policy.Name())
	}
}

func TestRoundRobinPolicy_OrderQueue_PreservesFIFO(t *testing.T) {
	ready := procs(5, 2, 9, 1)
	(&RoundRobinPolicy{Quantum: 10}).OrderQueue(ready)
	assert.Equal(t, []int{5, 2, 9, 1}, idsOf(ready))
}

func TestPriorityPolicy_NeverPreempts(t *testing.T) {
	// GIVEN a running process far past any quantum with a higher-priority process ready
	running := &Process{ID: 5}

	preempt, reason := (&PriorityPolicy{}).ShouldPreempt(running, 1000, procs(1))

	assert.False(t, preempt)
	assert.Equal(t, PreemptNone, reason)
}

func TestPreemptivePriorityPolicy_ShouldPreempt(t *testing.T) {
	policy := &PreemptivePriorityPolicy{Quantum: 3}
	tests := []struct {
		name       string
		running    int
		slice      int64
		ready      []int
		wantResult bool
		wantReason PreemptReason
	}{
		{"within quantum, no better process", 2, 2, []int{3, 4}, false, PreemptNone},
		{"quantum expired", 2, 3, []int{3}, true, PreemptQuantum},
		{"quantum expired, empty queue", 2, 3, nil, true, PreemptQuantum},
		{"lower id ready", 2, 0, []int{1}, true, PreemptPriority},
		{"equal id is not higher priority", 2, 1, []int{2}, false, PreemptNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := policy.ShouldPreempt(&Process{ID: tt.running}, tt.slice, procs(tt.ready...))
			assert.Equal(t, tt.wantResult, got)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestRoundRobinPolicy_ShouldPreempt_QuantumOnly(t *testing.T) {
	policy := &RoundRobinPolicy{Quantum: 4}

	// lower ID ready does not matter
	got, _ := policy.ShouldPreempt(&Process{ID: 9}, 3, procs(1))
	assert.False(t, got)

	got, reason := policy.ShouldPreempt(&Process{ID: 9}, 4, procs(1))
	assert.True(t, got)
	assert.Equal(t, PreemptQuantum, reason)
}

func TestNewPolicy_ByNameAndAlias(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", PolicyPriority},
		{"priority", PolicyPriority},
		{"ep", PolicyPriority},
		{"priority-preemptive", PolicyPreemptivePriority},
		{"ep-rr", PolicyPreemptivePriority},
		{"round-robin", PolicyRoundRobin},
		{"rr", PolicyRoundRobin},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPolicy(tt.name, 0).Name(), "name %q", tt.name)
	}
}

func TestNewPolicy_NonPositiveQuantum_UsesDefault(t *testing.T) {
	p := NewPolicy(PolicyRoundRobin, 0).(*RoundRobinPolicy)
	assert.Equal(t, DefaultQuantum, p.Quantum)

	q := NewPolicy(PolicyPreemptivePriority, 7).(*PreemptivePriorityPolicy)
	assert.Equal(t, int64(7), q.Quantum)
}

func TestNewPolicy_Unknown_Panics(t *testing.T) {
	assert.Panics(t, func() { NewPolicy("shortest-job-first", 0) })
}

func TestPolicyNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"priority", "priority-preemptive", "round-robin"}, PolicyNames())
	assert.True(t, IsValidPolicy("rr"))
	assert.False(t, IsValidPolicy("fifo"))
}

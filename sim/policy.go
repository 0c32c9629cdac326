package sim

import (
	"fmt"
	"slices"
	"sort"
)

// DefaultQuantum is the time slice, in ticks, of the quantum-based policies.
const DefaultQuantum int64 = 100

// PreemptReason explains why a running process was demoted to READY.
type PreemptReason string

const (
	PreemptNone     PreemptReason = ""
	PreemptQuantum  PreemptReason = "quantum-expired"
	PreemptPriority PreemptReason = "higher-priority-ready"
)

// SchedulingPolicy decides the ready-queue order, which ready process is
// dispatched next, and when the running process must give up the CPU.
// All three variants share the Simulator's tick protocol.
type SchedulingPolicy interface {
	Name() string
	// OrderQueue reorders the ready queue in place. Implementations sort with
	// sort.SliceStable for determinism.
	OrderQueue(ready []*Process)
	// SelectDispatch returns the index of the process to dispatch from a
	// non-empty, already ordered ready queue.
	SelectDispatch(ready []*Process) int
	// ShouldPreempt is consulted only while a process is running. slice is the
	// number of ticks it has executed since its last dispatch.
	ShouldPreempt(running *Process, slice int64, ready []*Process) (bool, PreemptReason)
}

// byPID orders processes by ascending ID: the lowest ID has the highest priority.
func byPID(ready []*Process) {
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].ID < ready[j].ID
	})
}

// PriorityPolicy is non-preemptive priority scheduling. A running process
// leaves the CPU only by terminating or starting I/O.
type PriorityPolicy struct{}

func (p *PriorityPolicy) Name() string { return PolicyPriority }
func (p *PriorityPolicy) OrderQueue(ready []*Process) { byPID(ready) }
func (p *PriorityPolicy) SelectDispatch(_ []*Process) int { return 0 }

func (p *PriorityPolicy) ShouldPreempt(_ *Process, _ int64, _ []*Process) (bool, PreemptReason) {
	return false, PreemptNone
}

// PreemptivePriorityPolicy adds two preemption triggers to priority ordering:
// quantum expiry, and a ready process with a strictly lower ID than the
// running one.
type PreemptivePriorityPolicy struct {
	Quantum int64
}

func (p *PreemptivePriorityPolicy) Name() string { return PolicyPreemptivePriority }
func (p *PreemptivePriorityPolicy) OrderQueue(ready []*Process) { byPID(ready) }
func (p *PreemptivePriorityPolicy) SelectDispatch(_ []*Process) int { return 0 }

func (p *PreemptivePriorityPolicy) ShouldPreempt(running *Process, slice int64, ready []*Process) (bool, PreemptReason) {
	if slice >= p.Quantum {
		return true, PreemptQuantum
	}
	for _, r := range ready {
		if r.ID < running.ID {
			return true, PreemptPriority
		}
	}
	return false, PreemptNone
}

// RoundRobinPolicy is FIFO dispatch with quantum-driven preemption. A
// preempted process goes to the back of the queue; IDs carry no priority.
type RoundRobinPolicy struct {
	Quantum int64
}

func (r *RoundRobinPolicy) Name() string { return PolicyRoundRobin }

func (r *RoundRobinPolicy) OrderQueue(_ []*Process) {
	// No-op: FIFO order preserved from enqueue order
}

func (r *RoundRobinPolicy) SelectDispatch(_ []*Process) int { return 0 }

func (r *RoundRobinPolicy) ShouldPreempt(_ *Process, slice int64, _ []*Process) (bool, PreemptReason) {
	if slice >= r.Quantum {
		return true, PreemptQuantum
	}
	return false, PreemptNone
}

// Policy names accepted by NewPolicy.
const (
	PolicyPriority           = "priority"
	PolicyPreemptivePriority = "priority-preemptive"
	PolicyRoundRobin         = "round-robin"
)

// policyAliases maps the short names ep, ep-rr and rr.
var policyAliases = map[string]string{
	"":      PolicyPriority,
	"ep":    PolicyPriority,
	"ep-rr": PolicyPreemptivePriority,
	"rr":    PolicyRoundRobin,
}

var validPolicies = map[string]bool{
	PolicyPriority:           true,
	PolicyPreemptivePriority: true,
	PolicyRoundRobin:         true,
}

// CanonicalPolicyName resolves aliases; unknown names are returned unchanged.
func CanonicalPolicyName(name string) string {
	if canonical, ok := policyAliases[name]; ok {
		return canonical
	}
	return name
}

// IsValidPolicy returns true if name (or its alias) is a recognized policy.
func IsValidPolicy(name string) bool {
	return validPolicies[CanonicalPolicyName(name)]
}

// PolicyNames returns the canonical policy names in sorted order.
func PolicyNames() []string {
	names := make([]string, 0, len(validPolicies))
	for name := range validPolicies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewPolicy creates a SchedulingPolicy by name.
// Empty string defaults to PriorityPolicy. A non-positive quantum falls back
// to DefaultQuantum. Panics on unrecognized names.
func NewPolicy(name string, quantum int64) SchedulingPolicy {
	if !IsValidPolicy(name) {
		panic(fmt.Sprintf("unknown scheduling policy %q", name))
	}
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	switch CanonicalPolicyName(name) {
	case PolicyPriority:
		return &PriorityPolicy{}
	case PolicyPreemptivePriority:
		return &PreemptivePriorityPolicy{Quantum: quantum}
	case PolicyRoundRobin:
		return &RoundRobinPolicy{Quantum: quantum}
	default:
		panic(fmt.Sprintf("unhandled scheduling policy %q", name))
	}
}

// sim/simulator.go
package sim

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/partsim/partsim/sim/trace"
)

var (
	// ErrInvalidSpec is wrapped by every rejected input record.
	ErrInvalidSpec = errors.New("invalid process spec")
	// ErrDuplicateID reports two input records sharing a PID.
	ErrDuplicateID = errors.New("duplicate process id")
)

// ValidateSpecs checks the records the engine assumes are well formed:
// positive size and processing time, non-negative times, unique IDs.
func ValidateSpecs(specs []ProcessSpec) error {
	seen := make(map[int]bool, len(specs))
	for i, s := range specs {
		switch {
		case s.ID < 0:
			return fmt.Errorf("%w: record %d: id must be non-negative, got %d", ErrInvalidSpec, i, s.ID)
		case s.Size <= 0:
			return fmt.Errorf("%w: pid %d: size must be positive, got %d", ErrInvalidSpec, s.ID, s.Size)
		case s.ProcessingTime <= 0:
			return fmt.Errorf("%w: pid %d: processing time must be positive, got %d", ErrInvalidSpec, s.ID, s.ProcessingTime)
		case s.ArrivalTime < 0 || s.IOFrequency < 0 || s.IODuration < 0:
			return fmt.Errorf("%w: pid %d: arrival, io_freq and io_duration must be non-negative", ErrInvalidSpec, s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateID, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// Simulator is the core object that holds simulated time, the process store,
// the queues, and the tick loop of one run.
type Simulator struct {
	RunID  string
	Clock  int64
	Config Config
	Policy SchedulingPolicy
	Memory *MemoryAllocator

	// processes is the authoritative store; every queue below holds references into it.
	processes map[int]*Process
	order     []int // PIDs in input order

	// incoming holds processes not yet admitted (not arrived, or blocked on memory)
	incoming []*Process
	ReadyQ   *ReadyQueue
	WaitQ    *IOWaitQueue
	running  Optional[int]
	// jobList is every admitted process, in admission order
	jobList []*Process

	sliceTicks        int64 // ticks executed by the running process since its dispatch
	busyTicks         int64
	terminated        int
	pendingAdmissible int // incoming processes that fit some partition

	Transitions []TransitionEvent
	MemoryLog   []MemorySnapshot
	Trace       *trace.SimulationTrace

	log *logrus.Entry
}

// NewSimulator validates the configuration and the input records and builds
// a simulator with its own partition table.
func NewSimulator(specs []ProcessSpec, cfg Config) (*Simulator, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateSpecs(specs); err != nil {
		return nil, err
	}

	s := &Simulator{
		RunID:     uuid.NewString(),
		Config:    cfg,
		Policy:    NewPolicy(cfg.Policy, cfg.Quantum),
		Memory:    NewMemoryAllocator(cfg.Partitions, AllocationStrategy(cfg.Allocation)),
		processes: make(map[int]*Process, len(specs)),
		order:     make([]int, 0, len(specs)),
		incoming:  make([]*Process, 0, len(specs)),
		ReadyQ:    &ReadyQueue{},
		WaitQ:     &IOWaitQueue{},
		running:   None[int](),
		Trace:     trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(cfg.Trace)}),
	}
	s.log = logrus.WithFields(logrus.Fields{"run_id": s.RunID, "policy": s.Policy.Name()})

	for _, spec := range specs {
		p := NewProcess(spec)
		s.processes[p.ID] = p
		s.order = append(s.order, p.ID)
		s.incoming = append(s.incoming, p)
		if s.Memory.CanEverFit(p.Size) {
			s.pendingAdmissible++
		} else {
			s.log.Warnf("pid %d requests %d units but the largest partition holds %d; it will never be admitted",
				p.ID, p.Size, s.Memory.LargestCapacity())
		}
	}
	return s, nil
}

// Done reports whether the run is over: every admitted process has
// terminated and nothing that could still be admitted is waiting to arrive.
func (sim *Simulator) Done() bool {
	return sim.terminated == len(sim.jobList) && sim.pendingAdmissible == 0
}

// Run steps the clock until Done and returns the run's output.
func (sim *Simulator) Run() *Result {
	sim.log.Infof("[tick %07d] Simulation started with %d processes", sim.Clock, len(sim.order))
	for !sim.Done() {
		sim.Step()
	}
	sim.log.Infof("[tick %07d] Simulation ended", sim.Clock)
	return sim.result()
}

// Step executes one tick. The order of the phases is observable in the
// transition log: work done in later phases sees the effects of earlier ones.
func (sim *Simulator) Step() {
	now := sim.Clock
	sim.completeIO(now)
	sim.admitArrivals(now)
	sim.checkPreemption(now)
	sim.dispatch(now)
	sim.execute(now)
	sim.Clock++
}

// Running returns the process on the CPU, or nil when the CPU is idle.
func (sim *Simulator) Running() *Process {
	pid, ok := sim.running.Get()
	if !ok {
		return nil
	}
	return sim.processes[pid]
}

// Process returns the record of pid from the store, or nil.
func (sim *Simulator) Process(pid int) *Process {
	return sim.processes[pid]
}

// SliceTicks returns how long the running process has executed since its dispatch.
func (sim *Simulator) SliceTicks() int64 {
	return sim.sliceTicks
}

func (sim *Simulator) transition(p *Process, to ProcessState, tick int64) {
	from := p.State
	p.setState(to)
	ev := TransitionEvent{Tick: tick, PID: p.ID, From: from, To: to}
	sim.Transitions = append(sim.Transitions, ev)
	sim.log.Debugf("[tick %07d] pid %d: %s -> %s", tick, p.ID, from, to)
}

// completeIO moves every process whose I/O burst has elapsed back to READY.
func (sim *Simulator) completeIO(now int64) {
	for _, p := range sim.WaitQ.PopCompleted(now) {
		p.IOStart = None[int64]()
		p.StartTime = None[int64]()
		sim.transition(p, StateReady, now)
		sim.ReadyQ.Enqueue(p)
	}
}

// admitArrivals tries to place every process arriving now into memory. A
// process that does not fit has its arrival pushed back one tick and keeps
// its place in the incoming list.
func (sim *Simulator) admitArrivals(now int64) {
	kept := make([]*Process, 0, len(sim.incoming))
	for _, p := range sim.incoming {
		if p.ArrivalTime != now {
			kept = append(kept, p)
			continue
		}
		if !sim.Memory.Allocate(p) {
			p.ArrivalTime++
			p.Deferrals++
			if p.Deferrals == 1 {
				sim.log.Debugf("[tick %07d] pid %d deferred: no free partition fits %d units", now, p.ID, p.Size)
				if sim.Trace.Enabled() {
					sim.Trace.RecordAdmission(trace.AdmissionRecord{PID: p.ID, Clock: now, Reason: "no free partition"})
				}
			}
			kept = append(kept, p)
			continue
		}
		if p.AdmittedAt.IsSet() {
			panic(fmt.Sprintf("admitArrivals: process %d admitted twice", p.ID))
		}
		p.AdmittedAt = Some(now)
		sim.transition(p, StateReady, now)
		sim.ReadyQ.Enqueue(p)
		sim.jobList = append(sim.jobList, p)
		sim.pendingAdmissible--
		sim.MemoryLog = append(sim.MemoryLog, sim.Memory.Snapshot(now))
		if sim.Trace.Enabled() {
			sim.Trace.RecordAdmission(trace.AdmissionRecord{
				PID:       p.ID,
				Clock:     now,
				Admitted:  true,
				Partition: p.Partition.MustGet(),
				Reason:    sim.Config.Allocation,
			})
		}
	}
	sim.incoming = kept
}

// checkPreemption asks the policy whether the running process must yield.
func (sim *Simulator) checkPreemption(now int64) {
	p := sim.Running()
	if p == nil {
		return
	}
	sim.ReadyQ.Reorder(sim.Policy.OrderQueue)
	preempt, reason := sim.Policy.ShouldPreempt(p, sim.sliceTicks, sim.ReadyQ.Items())
	if !preempt {
		return
	}
	if sim.Trace.Enabled() {
		sim.Trace.RecordPreemption(trace.PreemptionRecord{PID: p.ID, Clock: now, SliceTicks: sim.sliceTicks, Reason: string(reason)})
	}
	p.Preemptions++
	p.StartTime = None[int64]()
	sim.vacate()
	sim.transition(p, StateReady, now)
	sim.ReadyQ.Enqueue(p)
	sim.ReadyQ.Reorder(sim.Policy.OrderQueue)
}

// dispatch fills a vacant CPU with the policy's choice from the ready queue.
func (sim *Simulator) dispatch(now int64) {
	if sim.running.IsSet() || sim.ReadyQ.Len() == 0 {
		return
	}
	sim.ReadyQ.Reorder(sim.Policy.OrderQueue)
	idx := sim.Policy.SelectDispatch(sim.ReadyQ.Items())
	if sim.Trace.Enabled() {
		candidates := make([]int, 0, sim.ReadyQ.Len())
		for _, r := range sim.ReadyQ.Items() {
			candidates = append(candidates, r.ID)
		}
		sim.Trace.RecordDispatch(trace.DispatchRecord{
			PID:        sim.ReadyQ.Items()[idx].ID,
			Clock:      now,
			Candidates: candidates,
			Reason:     sim.Policy.Name(),
		})
	}
	p := sim.ReadyQ.RemoveAt(idx)
	p.StartTime = Some(now)
	if !p.FirstDispatch.IsSet() {
		p.FirstDispatch = Some(now)
	}
	p.Dispatches++
	sim.transition(p, StateRunning, now)
	sim.running = Some(p.ID)
	sim.sliceTicks = 0
}

// execute performs one unit of work on the running process, then handles
// termination or the start of an I/O burst. Both take effect at the boundary
// after this tick.
func (sim *Simulator) execute(now int64) {
	p := sim.Running()
	if p == nil {
		return
	}
	for _, r := range sim.ReadyQ.Items() {
		r.ReadyTicks++
	}
	p.RemainingTime--
	sim.sliceTicks++
	sim.busyTicks++
	boundary := now + 1

	if p.RemainingTime == 0 {
		if !sim.Memory.Free(p) {
			panic(fmt.Sprintf("execute: terminating process %d holds no partition", p.ID))
		}
		p.FinishedAt = Some(boundary)
		sim.vacate()
		sim.transition(p, StateTerminated, boundary)
		sim.terminated++
		return
	}
	if p.IODue() {
		p.IOStart = Some(boundary)
		p.IOBursts++
		sim.vacate()
		sim.transition(p, StateWaiting, boundary)
		sim.WaitQ.Push(p)
	}
}

func (sim *Simulator) vacate() {
	sim.running = None[int]()
	sim.sliceTicks = 0
}

// CheckInvariants verifies the resource and membership invariants: each
// process sits in exactly one container matching its state, and holds a
// partition exactly while admitted and not terminated.
func (sim *Simulator) CheckInvariants() error {
	if sim.Memory.UsedCapacity > sim.Memory.TotalCapacity() {
		return fmt.Errorf("used capacity %d exceeds total %d", sim.Memory.UsedCapacity, sim.Memory.TotalCapacity())
	}
	for _, pid := range sim.order {
		p := sim.processes[pid]
		members := 0
		if sim.ReadyQ.Contains(pid) {
			members++
			if p.State != StateReady {
				return fmt.Errorf("pid %d in ready queue with state %s", pid, p.State)
			}
		}
		if sim.WaitQ.Contains(pid) {
			members++
			if p.State != StateWaiting {
				return fmt.Errorf("pid %d in wait queue with state %s", pid, p.State)
			}
		}
		if running, ok := sim.running.Get(); ok && running == pid {
			members++
			if p.State != StateRunning {
				return fmt.Errorf("pid %d on CPU with state %s", pid, p.State)
			}
		}
		if p.State == StateNew || p.State == StateTerminated {
			if members != 0 {
				return fmt.Errorf("pid %d in state %s is queued", pid, p.State)
			}
		} else if members != 1 {
			return fmt.Errorf("pid %d in state %s belongs to %d containers", pid, p.State, members)
		}

		holds := sim.Memory.PartitionOf(pid).IsSet()
		admitted := p.State != StateNew && p.State != StateTerminated
		if holds != admitted || holds != p.Partition.IsSet() {
			return fmt.Errorf("pid %d in state %s: holds partition=%v, record partition=%s", pid, p.State, holds, p.Partition)
		}
		if p.RemainingTime < 0 || p.RemainingTime > p.TotalTime {
			return fmt.Errorf("pid %d remaining time %d outside [0,%d]", pid, p.RemainingTime, p.TotalTime)
		}
	}
	return nil
}

func (sim *Simulator) result() *Result {
	res := &Result{
		RunID:       sim.RunID,
		Policy:      sim.Policy.Name(),
		Transitions: sim.Transitions,
		Memory:      sim.MemoryLog,
		Processes:   make([]*Process, 0, len(sim.order)),
		FinalTick:   sim.Clock,
		Trace:       sim.Trace,
	}
	for _, pid := range sim.order {
		res.Processes = append(res.Processes, sim.processes[pid])
	}
	for _, p := range sim.incoming {
		res.Unadmitted = append(res.Unadmitted, p.ID)
	}
	res.Metrics = ComputeMetrics(res.Processes, sim.busyTicks, sim.Clock, sim.MemoryLog, sim.Memory.TotalCapacity())
	return res
}

// Simulate runs one complete simulation of specs under cfg. It performs no
// file or console I/O beyond logging.
func Simulate(specs []ProcessSpec, cfg Config) (*Result, error) {
	s, err := NewSimulator(specs, cfg)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}

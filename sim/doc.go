// Package sim provides the tick-driven process scheduling and memory
// partition simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (NEW → READY → RUNNING ↔ WAITING → TERMINATED) and state machine
//   - policy.go: the three scheduling policies behind one interface
//   - simulator.go: the tick protocol (I/O completion, admission, preemption, dispatch, execute)
//
// # Architecture
//
// A Simulator owns every Process in one store keyed by PID. The ready queue,
// the I/O wait queue and the CPU slot hold references into that store, so a
// process's fields are updated in one place regardless of which container it
// sits in. Memory is a fixed table of partitions managed by MemoryAllocator;
// at most one process occupies a partition.
//
// Each run is independent: Simulate builds a fresh Simulator and allocator,
// so SimulateAll can run several policies concurrently over the same input.
//
// Sub-packages:
//   - sim/workload/: parsing the six-field process records (text and YAML)
//   - sim/report/: execution, memory, PCB and metrics tables; log diffs
//   - sim/trace/: admission, dispatch and preemption decision records
//
// # Key Interfaces
//
//   - SchedulingPolicy: ready-queue order, dispatch choice, preemption trigger
//
// Engine invariant violations (illegal state edges, double allocation,
// freeing a process that holds nothing) panic. Bad input is reported through
// ErrInvalidSpec, ErrDuplicateID and ErrInvalidConfig.
package sim

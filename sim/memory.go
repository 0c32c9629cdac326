// sim/memory.go
package sim

import (
	"fmt"
)

// DefaultPartitionCapacities is the fixed partition table, in size units,
// ordered by partition number (partition 1 holds 40 units).
var DefaultPartitionCapacities = []int64{40, 25, 15, 10, 8, 2}

// AllocationStrategy selects how the allocator picks among free partitions.
type AllocationStrategy string

const (
	// AllocationScan walks the table from the last partition to the first and
	// takes the first free partition large enough. With the default table this
	// is smallest-capacity-first.
	AllocationScan AllocationStrategy = "scan"
	// AllocationBestFit takes the free partition with the least capacity that
	// still fits, regardless of table order.
	AllocationBestFit AllocationStrategy = "best-fit"
)

var validAllocationStrategies = map[AllocationStrategy]bool{
	"":                true, // empty defaults to scan
	AllocationScan:    true,
	AllocationBestFit: true,
}

// IsValidAllocationStrategy returns true if name is a recognized strategy.
func IsValidAllocationStrategy(name string) bool {
	return validAllocationStrategies[AllocationStrategy(name)]
}

// Partition is one fixed-capacity slot of simulated physical memory.
type Partition struct {
	Number   int           // 1-based partition number
	Capacity int64         // Size units
	Occupant Optional[int] // PID of the resident process, unset when free
}

// MemoryAllocator owns the partition table of one simulation run.
// Every run gets its own allocator; nothing here is shared between runs.
type MemoryAllocator struct {
	Partitions   []*Partition
	Strategy     AllocationStrategy
	owners       map[int]int // PID -> index into Partitions
	UsedCapacity int64       // Sum of occupied capacities (tracked incrementally)
}

// NewMemoryAllocator creates an allocator with one free partition per capacity,
// numbered from 1 in the given order.
func NewMemoryAllocator(capacities []int64, strategy AllocationStrategy) *MemoryAllocator {
	if len(capacities) == 0 {
		panic("NewMemoryAllocator: at least one partition is required")
	}
	if strategy == "" {
		strategy = AllocationScan
	}
	m := &MemoryAllocator{
		Partitions: make([]*Partition, len(capacities)),
		Strategy:   strategy,
		owners:     make(map[int]int),
	}
	for i, c := range capacities {
		if c <= 0 {
			panic(fmt.Sprintf("NewMemoryAllocator: partition %d has non-positive capacity %d", i+1, c))
		}
		m.Partitions[i] = &Partition{Number: i + 1, Capacity: c}
	}
	return m
}

// Allocate grants a free partition to the process. On success the partition
// records the PID and the process records the partition number. On failure
// nothing changes and the caller should retry later.
func (m *MemoryAllocator) Allocate(p *Process) bool {
	if _, held := m.owners[p.ID]; held || p.Partition.IsSet() {
		panic(fmt.Sprintf("Allocate: process %d already holds a partition", p.ID))
	}
	idx := m.pick(p.Size)
	if idx < 0 {
		return false
	}
	part := m.Partitions[idx]
	part.Occupant = Some(p.ID)
	m.owners[p.ID] = idx
	m.UsedCapacity += part.Capacity
	p.Partition = Some(part.Number)
	return true
}

// pick returns the index of the partition to grant, or -1 if none fits.
func (m *MemoryAllocator) pick(size int64) int {
	best := -1
	// both strategies walk the table from the end, so ties resolve identically
	for i := len(m.Partitions) - 1; i >= 0; i-- {
		part := m.Partitions[i]
		if part.Occupant.IsSet() || part.Capacity < size {
			continue
		}
		if m.Strategy == AllocationScan {
			return i
		}
		if best < 0 || part.Capacity < m.Partitions[best].Capacity {
			best = i
		}
	}
	return best
}

// Free releases the partition held by the process and clears the process's
// partition field. Returns false if the process holds no partition.
func (m *MemoryAllocator) Free(p *Process) bool {
	idx, held := m.owners[p.ID]
	if !held {
		return false
	}
	part := m.Partitions[idx]
	part.Occupant = None[int]()
	delete(m.owners, p.ID)
	m.UsedCapacity -= part.Capacity
	p.Partition = None[int]()
	return true
}

// TotalCapacity returns the sum of all partition capacities.
func (m *MemoryAllocator) TotalCapacity() int64 {
	var total int64
	for _, part := range m.Partitions {
		total += part.Capacity
	}
	return total
}

// LargestCapacity returns the capacity of the biggest partition.
func (m *MemoryAllocator) LargestCapacity() int64 {
	var largest int64
	for _, part := range m.Partitions {
		largest = max(largest, part.Capacity)
	}
	return largest
}

// CanEverFit reports whether a request of this size could be admitted once
// memory frees up. Requests larger than every partition never can.
func (m *MemoryAllocator) CanEverFit(size int64) bool {
	return size <= m.LargestCapacity()
}

// PartitionOf returns the partition number held by pid, if any.
func (m *MemoryAllocator) PartitionOf(pid int) Optional[int] {
	idx, held := m.owners[pid]
	if !held {
		return None[int]()
	}
	return Some(m.Partitions[idx].Number)
}

// PartitionStatus is one row of a memory snapshot.
type PartitionStatus struct {
	Number   int           `json:"number"`
	Capacity int64         `json:"capacity"`
	Occupant Optional[int] `json:"occupant"`
}

// MemorySnapshot captures partition occupancy at one tick.
type MemorySnapshot struct {
	Tick       int64             `json:"tick"`
	Partitions []PartitionStatus `json:"partitions"`
	Used       int64             `json:"used"`
	Free       int64             `json:"free"`
}

// Snapshot returns a copy of the partition table at the given tick.
func (m *MemoryAllocator) Snapshot(tick int64) MemorySnapshot {
	snap := MemorySnapshot{
		Tick:       tick,
		Partitions: make([]PartitionStatus, len(m.Partitions)),
	}
	for i, part := range m.Partitions {
		snap.Partitions[i] = PartitionStatus{Number: part.Number, Capacity: part.Capacity, Occupant: part.Occupant}
		if part.Occupant.IsSet() {
			snap.Used += part.Capacity
		} else {
			snap.Free += part.Capacity
		}
	}
	return snap
}

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcess(id int, size int64) *Process {
	return NewProcess(ProcessSpec{ID: id, Size: size, ProcessingTime: 1})
}

func TestMemoryAllocator_DefaultTable_SmallestFitFirst(t *testing.T) {
	tests := []struct {
		size          int64
		wantPartition int
	}{
		{1, 6},  // 2 units
		{2, 6},  // exact fit
		{5, 5},  // 8 units
		{9, 4},  // 10 units
		{11, 3}, // 15 units
		{20, 2}, // 25 units
		{40, 1}, // 40 units
	}
	for _, tt := range tests {
		// GIVEN a fresh default table
		m := NewMemoryAllocator(DefaultPartitionCapacities, AllocationScan)
		p := newTestProcess(1, tt.size)

		// WHEN allocating
		ok := m.Allocate(p)

		// THEN the smallest partition that fits is taken
		require.True(t, ok, "size %d", tt.size)
		assert.Equal(t, tt.wantPartition, p.Partition.MustGet(), "size %d", tt.size)
		assert.Equal(t, Some(1), m.Partitions[tt.wantPartition-1].Occupant)
	}
}

func TestMemoryAllocator_SkipsOccupied(t *testing.T) {
	// GIVEN partition 5 (8 units) already occupied
	m := NewMemoryAllocator(DefaultPartitionCapacities, AllocationScan)
	require.True(t, m.Allocate(newTestProcess(1, 5)))

	// WHEN a second size-5 process arrives
	p := newTestProcess(2, 5)
	require.True(t, m.Allocate(p))

	// THEN it gets the next partition in scan order (10 units)
	assert.Equal(t, 4, p.Partition.MustGet())
	assert.Equal(t, int64(18), m.UsedCapacity)
}

func TestMemoryAllocator_NoFit_ReturnsFalseAndLeavesProcessUnchanged(t *testing.T) {
	// GIVEN the only 40-unit partition is taken
	m := NewMemoryAllocator(DefaultPartitionCapacities, AllocationScan)
	require.True(t, m.Allocate(newTestProcess(1, 30)))

	// WHEN another 30-unit request arrives
	p := newTestProcess(2, 30)
	ok := m.Allocate(p)

	// THEN allocation fails without side effects
	assert.False(t, ok)
	assert.False(t, p.Partition.IsSet())
	assert.False(t, m.PartitionOf(2).IsSet())
	assert.Equal(t, int64(40), m.UsedCapacity)
}

func TestMemoryAllocator_Free(t *testing.T) {
	m := NewMemoryAllocator(DefaultPartitionCapacities, AllocationScan)
	p := newTestProcess(1, 5)
	require.True(t, m.Allocate(p))

	// WHEN freed
	assert.True(t, m.Free(p))

	// THEN both sides are cleared and the partition is reusable
	assert.False(t, p.Partition.IsSet())
	assert.False(t, m.Partitions[4].Occupant.IsSet())
	assert.Equal(t, int64(0), m.UsedCapacity)
	q := newTestProcess(2, 5)
	require.True(t, m.Allocate(q))
	assert.Equal(t, 5, q.Partition.MustGet())
}

func TestMemoryAllocator_Free_NotHolding_ReturnsFalse(t *testing.T) {
	m := NewMemoryAllocator(DefaultPartitionCapacities, AllocationScan)
	assert.False(t, m.Free(newTestProcess(9, 1)))
}

func TestMemoryAllocator_DoubleAllocate_Panics(t *testing.T) {
	m := NewMemoryAllocator(DefaultPartitionCapacities, AllocationScan)
	p := newTestProcess(1, 5)
	require.True(t, m.Allocate(p))
	assert.Panics(t, func() { m.Allocate(p) })
}

func TestMemoryAllocator_ScanVsBestFit_ReorderedTable(t *testing.T) {
	// GIVEN a table whose order does not follow capacity
	capacities := []int64{8, 40}

	// WHEN a size-5 process is placed under each strategy
	scan := NewMemoryAllocator(capacities, AllocationScan)
	ps := newTestProcess(1, 5)
	require.True(t, scan.Allocate(ps))

	best := NewMemoryAllocator(capacities, AllocationBestFit)
	pb := newTestProcess(1, 5)
	require.True(t, best.Allocate(pb))

	// THEN scan takes the first fit from the end, best-fit the smallest fit
	assert.Equal(t, 2, ps.Partition.MustGet())
	assert.Equal(t, 1, pb.Partition.MustGet())
}

func TestMemoryAllocator_CapacityQueries(t *testing.T) {
	m := NewMemoryAllocator(DefaultPartitionCapacities, "")
	assert.Equal(t, AllocationScan, m.Strategy)
	assert.Equal(t, int64(100), m.TotalCapacity())
	assert.Equal(t, int64(40), m.LargestCapacity())
	assert.True(t, m.CanEverFit(40))
	assert.False(t, m.CanEverFit(50))
}

func TestNewMemoryAllocator_InvalidTable_Panics(t *testing.T) {
	assert.Panics(t, func() { NewMemoryAllocator(nil, AllocationScan) })
	assert.Panics(t, func() { NewMemoryAllocator([]int64{10, 0}, AllocationScan) })
}

func TestMemoryAllocator_Snapshot(t *testing.T) {
	// GIVEN one occupied partition
	m := NewMemoryAllocator(DefaultPartitionCapacities, AllocationScan)
	require.True(t, m.Allocate(newTestProcess(3, 9)))

	// WHEN a snapshot is taken
	snap := m.Snapshot(12)

	// THEN totals and occupants reflect the table
	assert.Equal(t, int64(12), snap.Tick)
	assert.Equal(t, int64(10), snap.Used)
	assert.Equal(t, int64(90), snap.Free)
	require.Len(t, snap.Partitions, 6)
	assert.Equal(t, Some(3), snap.Partitions[3].Occupant)
	assert.False(t, snap.Partitions[0].Occupant.IsSet())

	// AND later changes do not leak into it
	m.Free(&Process{ID: 3})
	assert.Equal(t, Some(3), snap.Partitions[3].Occupant)
}

func TestIsValidAllocationStrategy(t *testing.T) {
	assert.True(t, IsValidAllocationStrategy("scan"))
	assert.True(t, IsValidAllocationStrategy("best-fit"))
	assert.True(t, IsValidAllocationStrategy(""))
	assert.False(t, IsValidAllocationStrategy("worst-fit"))
}

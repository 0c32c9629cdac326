package sim

import "container/heap"

// ioEntry is one process doing I/O, keyed by the tick its burst completes.
type ioEntry struct {
	proc    *Process
	readyAt int64  // IOStart + IODuration
	seq     uint64 // insertion order, breaks ties deterministically
}

// ioHeap implements heap.Interface ordered by completion tick, then insertion order.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type ioHeap []ioEntry

func (h ioHeap) Len() int { return len(h) }
func (h ioHeap) Less(i, j int) bool {
	if h[i].readyAt != h[j].readyAt {
		return h[i].readyAt < h[j].readyAt
	}
	return h[i].seq < h[j].seq
}
func (h ioHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *ioHeap) Push(x any) {
	*h = append(*h, x.(ioEntry))
}

func (h *ioHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// IOWaitQueue holds processes in WAITING, each with its own completion time.
// Processes completing on the same tick come out in the order they started waiting.
type IOWaitQueue struct {
	entries ioHeap
	nextSeq uint64
}

// Push adds a process whose IOStart is set.
func (q *IOWaitQueue) Push(p *Process) {
	start := p.IOStart.MustGet()
	heap.Push(&q.entries, ioEntry{proc: p, readyAt: start + p.IODuration, seq: q.nextSeq})
	q.nextSeq++
}

// PopCompleted removes and returns every process whose I/O has elapsed by now.
func (q *IOWaitQueue) PopCompleted(now int64) []*Process {
	var done []*Process
	for len(q.entries) > 0 && q.entries[0].proc.IOElapsed(now) {
		done = append(done, heap.Pop(&q.entries).(ioEntry).proc)
	}
	return done
}

// Len returns the number of waiting processes.
func (q *IOWaitQueue) Len() int {
	return len(q.entries)
}

// Contains reports whether a process with this PID is waiting.
func (q *IOWaitQueue) Contains(pid int) bool {
	for _, e := range q.entries {
		if e.proc.ID == pid {
			return true
		}
	}
	return false
}

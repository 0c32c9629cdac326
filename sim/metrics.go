// Tracks run-wide and per-process scheduling metrics such as turnaround,
// response, ready-queue wait, CPU utilization and peak memory use.

package sim

// ProcessMetrics are the derived timings of one process. All values are in ticks.
type ProcessMetrics struct {
	PID         int   `json:"pid"`
	Turnaround  int64 `json:"turnaround"` // termination - requested arrival
	Response    int64 `json:"response"`   // first dispatch - requested arrival
	ReadyWait   int64 `json:"ready_wait"`
	AdmitDelay  int64 `json:"admit_delay"` // admission - requested arrival
	Dispatches  int   `json:"dispatches"`
	Preemptions int   `json:"preemptions"`
	IOBursts    int   `json:"io_bursts"`
}

// Metrics aggregates statistics about one run for final reporting.
// Only processes that terminated contribute to the timing averages.
type Metrics struct {
	Completed  int `json:"completed"`
	Unadmitted int `json:"unadmitted"`

	Makespan       int64   `json:"makespan"`
	CPUBusyTicks   int64   `json:"cpu_busy_ticks"`
	CPUUtilization float64 `json:"cpu_utilization"` // busy ticks / makespan
	Throughput     float64 `json:"throughput"`      // completions per tick

	AvgTurnaround float64 `json:"avg_turnaround"`
	P95Turnaround float64 `json:"p95_turnaround"`
	MaxTurnaround int64   `json:"max_turnaround"`
	AvgResponse   float64 `json:"avg_response"`
	AvgReadyWait  float64 `json:"avg_ready_wait"`

	TotalPreemptions int `json:"total_preemptions"`
	TotalIOBursts    int `json:"total_io_bursts"`
	TotalDeferrals   int `json:"total_deferrals"`

	PeakMemoryUsed        int64   `json:"peak_memory_used"`
	PeakMemoryUtilization float64 `json:"peak_memory_utilization"`

	PerProcess []ProcessMetrics `json:"per_process"`
}

// ComputeMetrics derives run metrics from the final process records, the
// number of ticks the CPU executed work, the final clock and the memory log.
func ComputeMetrics(procs []*Process, busyTicks, finalTick int64, memLog []MemorySnapshot, totalCapacity int64) *Metrics {
	m := &Metrics{
		Makespan:     finalTick,
		CPUBusyTicks: busyTicks,
	}
	var turnarounds, responses, waits []int64
	for _, p := range procs {
		m.TotalPreemptions += p.Preemptions
		m.TotalIOBursts += p.IOBursts
		m.TotalDeferrals += p.Deferrals

		admitted, ok := p.AdmittedAt.Get()
		if !ok {
			m.Unadmitted++
			continue
		}
		finished, ok := p.FinishedAt.Get()
		if !ok {
			continue
		}
		m.Completed++
		pm := ProcessMetrics{
			PID:         p.ID,
			Turnaround:  finished - p.RequestedArrival,
			Response:    p.FirstDispatch.MustGet() - p.RequestedArrival,
			ReadyWait:   p.ReadyTicks,
			AdmitDelay:  admitted - p.RequestedArrival,
			Dispatches:  p.Dispatches,
			Preemptions: p.Preemptions,
			IOBursts:    p.IOBursts,
		}
		m.PerProcess = append(m.PerProcess, pm)
		turnarounds = append(turnarounds, pm.Turnaround)
		responses = append(responses, pm.Response)
		waits = append(waits, pm.ReadyWait)
		m.MaxTurnaround = max(m.MaxTurnaround, pm.Turnaround)
	}

	m.AvgTurnaround = CalculateMean(turnarounds)
	m.P95Turnaround = CalculatePercentile(turnarounds, 95)
	m.AvgResponse = CalculateMean(responses)
	m.AvgReadyWait = CalculateMean(waits)
	if finalTick > 0 {
		m.CPUUtilization = float64(busyTicks) / float64(finalTick)
		m.Throughput = float64(m.Completed) / float64(finalTick)
	}

	for _, snap := range memLog {
		m.PeakMemoryUsed = max(m.PeakMemoryUsed, snap.Used)
	}
	if totalCapacity > 0 {
		m.PeakMemoryUtilization = float64(m.PeakMemoryUsed) / float64(totalCapacity)
	}
	return m
}

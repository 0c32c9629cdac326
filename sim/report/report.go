// Package report formats simulation results for people: the execution log,
// the memory status log, the final process table, per-policy metrics, and
// diffs between two runs' execution logs.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/partsim/partsim/sim"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

// WriteExecution renders the transition log as a table, one row per event.
func WriteExecution(w io.Writer, events []sim.TransitionEvent) {
	table := newTable(w, []string{"Time of Transition", "PID", "Old State", "New State"})
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			strconv.FormatInt(e.Tick, 10),
			strconv.Itoa(e.PID),
			e.From.String(),
			e.To.String(),
		})
	}
	table.AppendBulk(rows)
	table.Render()
}

// WriteMemoryStatus renders one block per memory snapshot.
func WriteMemoryStatus(w io.Writer, snaps []sim.MemorySnapshot) error {
	if _, err := fmt.Fprintln(w, "--- Memory Usage Log ---"); err != nil {
		return err
	}
	for _, snap := range snaps {
		var sb strings.Builder
		fmt.Fprintf(&sb, "Time: %d\nPartition Status:\n", snap.Tick)
		for _, part := range snap.Partitions {
			fmt.Fprintf(&sb, "  Part %d [%dMB]: ", part.Number, part.Capacity)
			if pid, ok := part.Occupant.Get(); ok {
				fmt.Fprintf(&sb, "Occupied by PID %d\n", pid)
			} else {
				sb.WriteString("Free\n")
			}
		}
		fmt.Fprintf(&sb, "Stats:\n  Total Memory Used: %d MB\n  Total Free Memory: %d MB\n", snap.Used, snap.Free)
		sb.WriteString(strings.Repeat("-", 50) + "\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteProcessTable renders the final process control blocks.
func WriteProcessTable(w io.Writer, procs []*sim.Process) {
	table := newTable(w, []string{"PID", "Partition", "Size", "Arrival Time", "Start Time", "Remaining Time", "State"})
	for _, p := range procs {
		table.Append([]string{
			strconv.Itoa(p.ID),
			p.Partition.String(),
			strconv.FormatInt(p.Size, 10),
			strconv.FormatInt(p.RequestedArrival, 10),
			p.StartTime.String(),
			strconv.FormatInt(p.RemainingTime, 10),
			p.State.String(),
		})
	}
	table.Render()
}

// WriteMetrics renders one row of aggregate metrics per run.
func WriteMetrics(w io.Writer, results []*sim.Result) {
	table := newTable(w, []string{
		"Policy", "Completed", "Unadmitted", "Makespan", "CPU Util", "Throughput",
		"Avg Turnaround", "Avg Wait", "Avg Response", "Preemptions", "I/O Bursts", "Peak Memory",
	})
	for _, res := range results {
		m := res.Metrics
		table.Append([]string{
			res.Policy,
			strconv.Itoa(m.Completed),
			strconv.Itoa(m.Unadmitted),
			strconv.FormatInt(m.Makespan, 10),
			fmt.Sprintf("%.1f%%", m.CPUUtilization*100),
			fmt.Sprintf("%.4f", m.Throughput),
			fmt.Sprintf("%.2f", m.AvgTurnaround),
			fmt.Sprintf("%.2f", m.AvgReadyWait),
			fmt.Sprintf("%.2f", m.AvgResponse),
			strconv.Itoa(m.TotalPreemptions),
			strconv.Itoa(m.TotalIOBursts),
			fmt.Sprintf("%d (%.0f%%)", m.PeakMemoryUsed, m.PeakMemoryUtilization*100),
		})
	}
	table.Render()
}

// ExecutionString returns the execution table as a string.
func ExecutionString(events []sim.TransitionEvent) string {
	var sb strings.Builder
	WriteExecution(&sb, events)
	return sb.String()
}

// MemoryStatusString returns the memory status log as a string.
func MemoryStatusString(snaps []sim.MemorySnapshot) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = WriteMemoryStatus(&sb, snaps)
	return sb.String()
}

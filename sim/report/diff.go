package report

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	sgdiff "github.com/sourcegraph/go-diff/diff"

	"github.com/partsim/partsim/sim"
)

// executionLines renders one line per transition, without table borders, so
// that diffs show only changed events.
func executionLines(events []sim.TransitionEvent) string {
	var sb strings.Builder
	for _, e := range events {
		fmt.Fprintf(&sb, "%6d  pid %-4d %-10s -> %s\n", e.Tick, e.PID, e.From, e.To)
	}
	return sb.String()
}

// DiffExecutions returns a unified diff between two runs' transition logs.
// An empty string means the logs are identical.
func DiffExecutions(left, right *sim.Result) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(executionLines(left.Transitions)),
		B:        difflib.SplitLines(executionLines(right.Transitions)),
		FromFile: left.Policy,
		ToFile:   right.Policy,
		Context:  2,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diffing %s and %s: %w", left.Policy, right.Policy, err)
	}
	return out, nil
}

// DiffStats summarises an execution diff. A deleted line followed by an
// added one counts as Changed.
type DiffStats struct {
	Hunks   int
	Added   int
	Changed int
	Deleted int
}

// ExecutionDiffStats parses a diff returned by DiffExecutions.
func ExecutionDiffStats(patch string) (DiffStats, error) {
	if patch == "" {
		return DiffStats{}, nil
	}
	fd, err := sgdiff.ParseFileDiff([]byte(patch))
	if err != nil {
		return DiffStats{}, fmt.Errorf("parsing execution diff: %w", err)
	}
	stat := fd.Stat()
	return DiffStats{
		Hunks:   len(fd.Hunks),
		Added:   int(stat.Added),
		Changed: int(stat.Changed),
		Deleted: int(stat.Deleted),
	}, nil
}

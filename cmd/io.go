package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/partsim/partsim/sim"
	"github.com/partsim/partsim/sim/report"
	"github.com/partsim/partsim/sim/trace"
	"github.com/partsim/partsim/sim/workload"
)

// Output file names inside --output-dir.
const (
	executionFile = "execution.txt"
	memoryFile    = "memory_status.txt"
	resultFile    = "result.json"
	decisionsFile = "decisions.json"
)

// readLocation downloads a local path or any afs-supported URL.
func readLocation(ctx context.Context, location string) ([]byte, error) {
	fs := afs.New()
	exists, err := fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", location, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s not found", location)
	}
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}

// writeLocation uploads data, creating parent folders as needed.
func writeLocation(ctx context.Context, location string, data []byte) error {
	fs := afs.New()
	if err := fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", location, err)
	}
	return nil
}

// loadWorkload reads and decodes the process list at location.
func loadWorkload(ctx context.Context, location string) ([]sim.ProcessSpec, error) {
	if location == "" {
		return nil, fmt.Errorf("no workload given; use --input")
	}
	data, err := readLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	specs, err := workload.Decode(location, data)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded %d processes from %s", len(specs), location)
	return specs, nil
}

// resolveConfig starts from --config (if any) and applies only the flags the
// user set explicitly, so a config file value is never clobbered by a flag default.
func resolveConfig(ctx context.Context, flags *pflag.FlagSet) (sim.Config, error) {
	var cfg sim.Config
	if configPath != "" {
		data, err := readLocation(ctx, configPath)
		if err != nil {
			return cfg, err
		}
		loaded, err := sim.ParseConfig(data)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
		logrus.Infof("Loaded run configuration from %s", configPath)
	}

	if flags.Changed("policy") {
		cfg.Policy = policyName
	}
	if flags.Changed("quantum") {
		cfg.Quantum = quantum
	}
	if flags.Changed("partitions") {
		cfg.Partitions = append([]int64(nil), partitions...)
	}
	if flags.Changed("allocation") {
		cfg.Allocation = allocation
	}
	if flags.Changed("trace") {
		cfg.Trace = traceLevel
	}

	// "all" is expanded by the caller; validate the rest against one concrete policy.
	all := sim.CanonicalPolicyName(cfg.Policy) == policyAll
	if all {
		cfg.Policy = ""
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if all {
		policyName = policyAll
	} else {
		policyName = cfg.Policy
	}
	return cfg, nil
}

// resultDocument is the JSON shape of result.json.
type resultDocument struct {
	*sim.Result
	Config sim.Config `json:"config"`
}

// writeResults stores the run's files under dir, in a per-policy
// subfolder when perPolicy is set. cfg is the configuration res ran with.
func writeResults(ctx context.Context, dir string, res *sim.Result, cfg sim.Config, perPolicy bool) error {
	base := dir
	if perPolicy {
		base = url.Join(dir, res.Policy)
	}

	if err := writeLocation(ctx, url.Join(base, executionFile), []byte(report.ExecutionString(res.Transitions))); err != nil {
		return err
	}
	if err := writeLocation(ctx, url.Join(base, memoryFile), []byte(report.MemoryStatusString(res.Memory))); err != nil {
		return err
	}

	doc := resultDocument{Result: res, Config: cfg}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := writeLocation(ctx, url.Join(base, resultFile), data); err != nil {
		return err
	}

	if res.Trace != nil && res.Trace.Enabled() {
		decisions := struct {
			Trace   *trace.SimulationTrace `json:"trace"`
			Summary *trace.TraceSummary    `json:"summary"`
		}{res.Trace, trace.Summarize(res.Trace)}
		data, err := json.MarshalIndent(decisions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal decision trace: %w", err)
		}
		if err := writeLocation(ctx, url.Join(base, decisionsFile), data); err != nil {
			return err
		}
	}
	logrus.Debugf("Wrote %s results to %s", res.Policy, base)
	return nil
}

// writePolicies prints each policy with the short aliases it accepts.
func writePolicies(w io.Writer) {
	aliases := map[string][]string{
		sim.PolicyPriority:           {"ep"},
		sim.PolicyPreemptivePriority: {"ep-rr"},
		sim.PolicyRoundRobin:         {"rr"},
	}
	for _, name := range sim.PolicyNames() {
		fmt.Fprintf(w, "%-20s aliases: %s\n", name, strings.Join(aliases[name], ", "))
	}
	fmt.Fprintf(w, "%-20s runs every policy above\n", policyAll)
}

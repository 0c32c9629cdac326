package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/partsim/partsim/internal/tracing"
	"github.com/partsim/partsim/sim"
	"github.com/partsim/partsim/sim/report"
)

// policyAll runs every policy over the same workload.
const policyAll = "all"

var (
	// CLI flags shared by run and compare
	inputURL   string  // Workload location: local path or afs URL; .yaml/.yml selects the YAML format
	configPath string  // Optional YAML run configuration; explicit flags override its fields
	quantum    int64   // Time slice of the quantum-based policies (in ticks)
	partitions []int64 // Partition capacities in partition-number order
	allocation string  // Partition selection strategy
	logLevel   string  // Log verbosity level

	// CLI flags for run
	policyName string // Scheduling policy name, alias, or "all"
	traceLevel string // Decision trace level
	outputDir  string // Directory (or afs URL) receiving execution.txt, memory_status.txt and result.json
	spanOut    string // File receiving OpenTelemetry spans; empty disables export
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "partsim",
	Short: "Tick-driven process scheduling and partitioned memory simulator",
}

// setupLogging applies --log; an invalid level is fatal.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation over a workload",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		ctx := context.Background()

		if spanOut != "" {
			f, err := os.Create(spanOut)
			if err != nil {
				logrus.Fatalf("unable to create span output %s: %v", spanOut, err)
			}
			defer f.Close()
			if err := tracing.Init("partsim", "dev", f); err != nil {
				logrus.Fatalf("unable to initialise tracing: %v", err)
			}
			defer func() {
				if err := tracing.Shutdown(ctx); err != nil {
					logrus.Warnf("tracing shutdown: %v", err)
				}
			}()
		}

		specs, err := loadWorkload(ctx, inputURL)
		if err != nil {
			logrus.Fatalf("unable to load workload; %v", err)
		}
		cfg, err := resolveConfig(ctx, cmd.Flags())
		if err != nil {
			logrus.Fatalf("invalid run configuration; %v", err)
		}

		cfgs := []sim.Config{cfg}
		if sim.CanonicalPolicyName(policyName) == policyAll {
			cfgs = sim.PolicyConfigs(cfg)
		}
		results, err := runSimulations(ctx, specs, cfgs)
		if err != nil {
			logrus.Fatalf("simulation failed; %v", err)
		}

		for _, res := range results {
			fmt.Printf("=== %s (run %s) ===\n", res.Policy, res.RunID)
			report.WriteExecution(os.Stdout, res.Transitions)
			report.WriteProcessTable(os.Stdout, res.Processes)
			if len(res.Unadmitted) > 0 {
				logrus.Warnf("%s: processes %v never fit a partition", res.Policy, res.Unadmitted)
			}
		}
		fmt.Println("=== Simulation Metrics ===")
		report.WriteMetrics(os.Stdout, results)

		if outputDir != "" {
			for i, res := range results {
				if err := writeResults(ctx, outputDir, res, cfgs[i], len(results) > 1); err != nil {
					logrus.Fatalf("unable to write results; %v", err)
				}
			}
			logrus.Infof("Results written to %s", outputDir)
		}
		logrus.Info("Simulation complete.")
	},
}

// policiesCmd lists the accepted policy names
var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List scheduling policies",
	Run: func(cmd *cobra.Command, args []string) {
		writePolicies(cmd.OutOrStdout())
	},
}

// runSimulations runs every configuration concurrently inside one span.
func runSimulations(ctx context.Context, specs []sim.ProcessSpec, cfgs []sim.Config) ([]*sim.Result, error) {
	_, span := tracing.StartSpan(ctx, "partsim.simulate")
	span.SetInt("processes", int64(len(specs))).SetInt("runs", int64(len(cfgs)))

	results, err := sim.SimulateAll(specs, cfgs)
	for _, res := range results {
		if res == nil {
			continue
		}
		span.SetString(res.Policy+".run_id", res.RunID).
			SetInt(res.Policy+".final_tick", res.FinalTick).
			SetInt(res.Policy+".completed", int64(res.Metrics.Completed)).
			SetFloat(res.Policy+".cpu_utilization", res.Metrics.CPUUtilization)
	}
	tracing.EndSpan(span, err)
	return results, err
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addSimulationFlags registers the flags shared by run and compare.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inputURL, "input", "", "Workload file or URL (six-field text records, or .yaml)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML run configuration")
	cmd.Flags().Int64Var(&quantum, "quantum", sim.DefaultQuantum, "Time slice in ticks for priority-preemptive and round-robin")
	cmd.Flags().Int64SliceVar(&partitions, "partitions", sim.DefaultPartitionCapacities, "Comma-separated partition capacities")
	cmd.Flags().StringVar(&allocation, "allocation", string(sim.AllocationScan), "Partition selection: scan or best-fit")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	_ = cmd.MarkFlagRequired("input")
}

// init sets up CLI flags and subcommands
func init() {
	addSimulationFlags(runCmd)
	runCmd.Flags().StringVar(&policyName, "policy", sim.PolicyPriority, "Scheduling policy: priority, priority-preemptive, round-robin, or all")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level: none or decisions")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory or URL for result files; empty prints to stdout only")
	runCmd.Flags().StringVar(&spanOut, "trace-out", "", "File receiving OpenTelemetry spans for each run")

	addSimulationFlags(compareCmd)
	compareCmd.Flags().StringVar(&leftPolicy, "left", sim.PolicyPriority, "First policy")
	compareCmd.Flags().StringVar(&rightPolicy, "right", sim.PolicyRoundRobin, "Second policy")

	generateCmd.Flags().StringVar(&generatorSpec, "spec", "", "YAML workload with a generator section")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Output file or URL; empty writes to stdout")
	generateCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	_ = generateCmd.MarkFlagRequired("spec")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(policiesCmd)
}

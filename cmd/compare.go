package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/partsim/partsim/sim"
	"github.com/partsim/partsim/sim/report"
)

var (
	leftPolicy  string // Policy on the left side of the diff
	rightPolicy string // Policy on the right side of the diff
)

// compareCmd runs one workload under two policies and diffs their execution logs
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Diff the execution logs of two policies on the same workload",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		ctx := context.Background()

		specs, err := loadWorkload(ctx, inputURL)
		if err != nil {
			logrus.Fatalf("unable to load workload; %v", err)
		}
		cfg, err := resolveConfig(ctx, cmd.Flags())
		if err != nil {
			logrus.Fatalf("invalid run configuration; %v", err)
		}
		cfgs, err := comparisonConfigs(cfg, leftPolicy, rightPolicy)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		results, err := runSimulations(ctx, specs, cfgs)
		if err != nil {
			logrus.Fatalf("simulation failed; %v", err)
		}
		diff, err := report.DiffExecutions(results[0], results[1])
		if err != nil {
			logrus.Fatalf("unable to diff executions; %v", err)
		}
		if diff == "" {
			fmt.Printf("%s and %s produce identical execution logs\n", results[0].Policy, results[1].Policy)
		} else {
			fmt.Print(diff)
			stats, err := report.ExecutionDiffStats(diff)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			fmt.Printf("%d hunks: %d added, %d changed, %d deleted transitions\n",
				stats.Hunks, stats.Added, stats.Changed, stats.Deleted)
		}
		fmt.Println("=== Simulation Metrics ===")
		report.WriteMetrics(os.Stdout, results)
	},
}

// comparisonConfigs returns copies of base for the two named policies.
func comparisonConfigs(base sim.Config, left, right string) ([]sim.Config, error) {
	cfgs := make([]sim.Config, 0, 2)
	for _, name := range []string{left, right} {
		if !sim.IsValidPolicy(name) {
			return nil, fmt.Errorf("unknown policy %q; valid: %v", name, sim.PolicyNames())
		}
		cfg := base
		cfg.Policy = sim.CanonicalPolicyName(name)
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/partsim/partsim/sim/workload"
)

var (
	generatorSpec string // YAML workload carrying a generator section
	generateOut   string // Destination of the generated records
)

// generateCmd expands a YAML workload into six-field text records
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the process records described by a YAML workload",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		ctx := context.Background()

		data, err := generateRecords(ctx, generatorSpec)
		if err != nil {
			logrus.Fatalf("unable to generate workload; %v", err)
		}
		if generateOut == "" {
			fmt.Print(string(data))
			return
		}
		if err := writeLocation(ctx, generateOut, data); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Workload written to %s", generateOut)
	},
}

// generateRecords loads the YAML workload at location and renders its
// explicit and generated processes as text records.
func generateRecords(ctx context.Context, location string) ([]byte, error) {
	data, err := readLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	spec, err := workload.ParseWorkloadSpec(data)
	if err != nil {
		return nil, err
	}
	specs, err := spec.Specs()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := workload.WriteRecords(&buf, specs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

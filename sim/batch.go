// batch.go
//
// Runs one workload under several configurations at once, one goroutine and
// one independent Simulator per configuration.

package sim

import (
	"errors"
	"fmt"
	"sync"
)

// SimulateAll runs specs under every configuration concurrently. Results are
// returned in the order of cfgs; a failed run leaves a nil entry and its
// error is joined into the returned error. Runs share nothing but the
// read-only input records.
func SimulateAll(specs []ProcessSpec, cfgs []Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := Simulate(specs, cfg)
			if err != nil {
				errs[i] = fmt.Errorf("run %d (%s): %w", i, cfg.Policy, err)
				return
			}
			results[i] = res
		}()
	}
	wg.Wait()
	return results, errors.Join(errs...)
}

// PolicyConfigs returns one copy of base per canonical policy name, in
// PolicyNames order.
func PolicyConfigs(base Config) []Config {
	names := PolicyNames()
	cfgs := make([]Config, 0, len(names))
	for _, name := range names {
		cfg := base
		cfg.Policy = name
		cfgs = append(cfgs, cfg)
	}
	return cfgs
}

package main

import (
	"fmt"
	"io"
	"time"

	"bfi/internal/driver"
	"bfi/internal/pipeline"
)

// printStageTimings prints the summed stage durations of a batch check.
func printStageTimings(out io.Writer, results []driver.CheckResult) {
	var total pipeline.Timings
	for i := range results {
		for _, stage := range pipeline.Stages {
			if results[i].Timings.Has(stage) {
				total.Add(stage, results[i].Timings.Duration(stage))
			}
		}
	}
	fmt.Fprintln(out, "timings (sum over files):")
	for _, stage := range pipeline.Stages {
		if total.Has(stage) {
			fmt.Fprintf(out, "  %-12s %9.3f ms\n", stage, toMillis(total.Duration(stage)))
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

package scenario

import (
	"fmt"
	"io"
)

// Reporter outputs scenario results.
type Reporter struct {
	Out     io.Writer
	Verbose bool // also print every step's output
}

// NewReporter creates a reporter that writes to the given output.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{Out: out}
}

// ReportResult outputs the result of a single scenario.
func (r *Reporter) ReportResult(file string, result Result) {
	if result.Passed {
		fmt.Fprintf(r.Out, "PASS: %s: %s\n", file, result.Scenario.Name)
	} else {
		fmt.Fprintf(r.Out, "FAIL: %s: %s\n", file, result.Scenario.Name)
		for _, failure := range result.Failures {
			fmt.Fprintf(r.Out, "  %s\n", failure)
		}
	}
	if !r.Verbose {
		return
	}
	for _, step := range result.Steps {
		switch {
		case step.Error != "":
			fmt.Fprintf(r.Out, "    %s\n      error: %s\n", step.Run, step.Error)
		case step.Output != "":
			fmt.Fprintf(r.Out, "    %s\n      %s\n", step.Run, step.Output)
		default:
			fmt.Fprintf(r.Out, "    %s\n", step.Run)
		}
	}
}

// ReportSummary outputs the final summary.
func (r *Reporter) ReportSummary(summary Summary) {
	fmt.Fprintf(r.Out, "\n%d scenarios, %d passed, %d failed\n", summary.Total, summary.Passed, summary.Failed)
}

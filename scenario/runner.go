package scenario

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/feather-lang/jsproxy"
	"github.com/feather-lang/jsproxy/convert"
	"github.com/feather-lang/jsproxy/internal/script"
	"github.com/feather-lang/jsproxy/jsheap"
)

// Result holds the outcome of running a single scenario.
type Result struct {
	Scenario Scenario
	Passed   bool
	Steps    []StepResult
	Failures []string
}

// StepResult captures what one step actually produced.
type StepResult struct {
	Run    string
	Output string
	Error  string
}

// Runner executes scenarios, each against its own table and runtime.
type Runner struct {
	Logger  *zap.Logger
	Convert []convert.Option
}

// NewRunner creates a runner. A nil logger discards log output.
func NewRunner(logger *zap.Logger, opts ...convert.Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Logger: logger, Convert: opts}
}

// RunSuite executes all scenarios in a suite.
func (r *Runner) RunSuite(suite *Suite) []Result {
	results := make([]Result, 0, len(suite.Scenarios))
	for _, sc := range suite.Scenarios {
		results = append(results, r.Run(sc))
	}
	return results
}

// Run executes one scenario. Every step runs even after a failure.
func (r *Runner) Run(sc Scenario) Result {
	result := Result{Scenario: sc, Passed: true}
	fail := func(format string, args ...any) {
		result.Passed = false
		result.Failures = append(result.Failures, fmt.Sprintf(format, args...))
	}

	log := r.Logger.With(zap.String("scenario", sc.Name))
	table, err := jsheap.New(jsheap.WithLogger(log))
	if err != nil {
		fail("failed to create table: %v", err)
		return result
	}
	rt := jsproxy.NewRuntime(table, convert.New(table, r.Convert...), jsproxy.WithLogger(log))
	before := table.Snapshot()

	if strings.TrimSpace(sc.Setup) != "" {
		h, err := table.Eval(sc.Setup)
		if err != nil {
			fail("setup failed: %v", err)
			return result
		}
		table.Decref(h)
	}

	session := script.NewSession(rt, table)
	for i, step := range sc.Steps {
		out, err := session.Exec(step.Run)
		sr := StepResult{Run: step.Run, Output: out}
		if err != nil {
			sr.Error = err.Error()
		}
		result.Steps = append(result.Steps, sr)

		switch {
		case step.Error != "" && err == nil:
			fail("step %d (%s): expected error containing %q, got output %q", i+1, step.Run, step.Error, out)
		case step.Error != "" && !strings.Contains(sr.Error, step.Error):
			fail("step %d (%s): error mismatch:\n  expected: %q\n  actual:   %q", i+1, step.Run, step.Error, sr.Error)
		case step.Error == "" && err != nil:
			fail("step %d (%s): unexpected error: %v", i+1, step.Run, err)
		case step.Expect != nil && *step.Expect != out:
			fail("step %d (%s): output mismatch:\n  expected: %q\n  actual:   %q", i+1, step.Run, *step.Expect, out)
		}
	}
	session.Close()
	rt.Close()

	if sc.RequiresBalance() {
		leaked := jsheap.Leaked(before, table.Snapshot())
		if len(leaked) > 0 {
			handles := slices.Sorted(maps.Keys(leaked))
			fail("unbalanced handles after close: %v", handles)
		}
	}
	return result
}

// Summary holds aggregate statistics about a run.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// Summarize calculates summary statistics from results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

package scenario_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/feather-lang/jsproxy/convert"
	"github.com/feather-lang/jsproxy/scenario"
)

func TestTestdata(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files found")
	}

	runner := scenario.NewRunner(nil)
	for _, file := range files {
		suite, err := scenario.ParseFile(file)
		if err != nil {
			t.Fatalf("ParseFile failed: %v", err)
		}
		for _, res := range runner.RunSuite(suite) {
			if !res.Passed {
				t.Errorf("%s: %s:\n  %s", file, res.Scenario.Name, strings.Join(res.Failures, "\n  "))
			}
		}
	}
}

func parse(t *testing.T, src string) scenario.Scenario {
	t.Helper()
	suite, err := scenario.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return suite.Scenarios[0]
}

func TestRunReportsFailures(t *testing.T) {
	sc := parse(t, `name: broken
steps:
  - run: js 1 + 1
    expect: "3"
  - run: js 1 + 1
    error: never
  - run: frobnicate
  - run: js 2
    expect: "2"
`)
	res := scenario.NewRunner(nil).Run(sc)
	if res.Passed {
		t.Fatal("expected the scenario to fail")
	}
	if len(res.Failures) != 3 {
		t.Fatalf("expected 3 failures, got %d: %q", len(res.Failures), res.Failures)
	}
	if len(res.Steps) != 4 || res.Steps[3].Output != "2" {
		t.Errorf("expected every step to run, got %+v", res.Steps)
	}
	if !strings.Contains(res.Failures[0], "output mismatch") {
		t.Errorf("expected an output mismatch, got %q", res.Failures[0])
	}
	if !strings.Contains(res.Failures[2], "unknown command") {
		t.Errorf("expected an unknown command failure, got %q", res.Failures[2])
	}
}

func TestRunSetupFailure(t *testing.T) {
	sc := parse(t, "name: x\nsetup: throw new Error('no')\nsteps:\n  - run: refs\n")
	res := scenario.NewRunner(nil).Run(sc)
	if res.Passed || len(res.Failures) != 1 || !strings.Contains(res.Failures[0], "setup failed") {
		t.Errorf("expected a setup failure, got %+v", res)
	}
}

func TestRunConvertOptions(t *testing.T) {
	sc := parse(t, `name: no copy
steps:
  - run: js [1, 2]
    expect: <JsProxy 1,2>
`)
	res := scenario.NewRunner(nil, convert.WithContainerCopy(false)).Run(sc)
	if !res.Passed {
		t.Errorf("expected pass, got %q", res.Failures)
	}
}

func TestReporter(t *testing.T) {
	results := []scenario.Result{
		{Scenario: scenario.Scenario{Name: "ok"}, Passed: true},
		{Scenario: scenario.Scenario{Name: "bad"}, Failures: []string{"step 1: boom"}},
	}
	var buf bytes.Buffer
	r := scenario.NewReporter(&buf)
	for _, res := range results {
		r.ReportResult("a.yaml", res)
	}
	r.ReportSummary(scenario.Summarize(results))

	want := "PASS: a.yaml: ok\nFAIL: a.yaml: bad\n  step 1: boom\n\n2 scenarios, 1 passed, 1 failed\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

package scenario_test

import (
	"strings"
	"testing"

	"github.com/feather-lang/jsproxy/scenario"
)

func TestParse(t *testing.T) {
	src := `name: first
setup: var x = 1;
steps:
  - run: js x
    expect: "1"
---
name: second
balanced: false
steps:
  - run: js x
    error: ReferenceError
`
	suite, err := scenario.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(suite.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(suite.Scenarios))
	}

	first := suite.Scenarios[0]
	if first.Name != "first" || first.Setup != "var x = 1;" {
		t.Errorf("unexpected first scenario %+v", first)
	}
	if first.Steps[0].Expect == nil || *first.Steps[0].Expect != "1" {
		t.Errorf("expected step to expect 1, got %v", first.Steps[0].Expect)
	}
	if !first.RequiresBalance() {
		t.Error("expected balance to be required by default")
	}

	second := suite.Scenarios[1]
	if second.RequiresBalance() {
		t.Error("expected balanced: false to be honored")
	}
	if second.Steps[0].Expect != nil || second.Steps[0].Error != "ReferenceError" {
		t.Errorf("unexpected second step %+v", second.Steps[0])
	}
}

func TestParseEmptyExpect(t *testing.T) {
	suite, err := scenario.Parse(strings.NewReader("name: x\nsteps:\n  - run: refs\n    expect: \"\"\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if e := suite.Scenarios[0].Steps[0].Expect; e == nil || *e != "" {
		t.Errorf("expected an explicit empty expectation, got %v", e)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing name", "steps:\n  - run: refs\n", "name is required"},
		{"no steps", "name: x\n", "no steps"},
		{"empty run", "name: x\nsteps:\n  - expect: a\n", "run is required"},
		{"both", "name: x\nsteps:\n  - run: refs\n    expect: a\n    error: b\n", "exclusive"},
		{"unknown field", "name: x\nsteps:\n  - run: refs\n    output: a\n", "output"},
		{"second document", "name: x\nsteps:\n  - run: refs\n---\nsteps: []\n", "scenario 2"},
	}
	for _, tt := range tests {
		_, err := scenario.Parse(strings.NewReader(tt.src))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.want, err)
		}
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := scenario.ParseFile("testdata/missing.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

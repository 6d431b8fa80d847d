package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseFile parses the scenarios in the given file.
func ParseFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	suite, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	suite.Path = path
	return suite, nil
}

// Parse reads a YAML stream with one scenario per document.
func Parse(r io.Reader) (*Suite, error) {
	suite := &Suite{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	for {
		var sc Scenario
		err := dec.Decode(&sc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := validate(&sc, len(suite.Scenarios)); err != nil {
			return nil, err
		}
		suite.Scenarios = append(suite.Scenarios, sc)
	}
	return suite, nil
}

func validate(sc *Scenario, index int) error {
	sc.Name = strings.TrimSpace(sc.Name)
	if sc.Name == "" {
		return fmt.Errorf("scenario %d: name is required", index+1)
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("scenario %q: no steps", sc.Name)
	}
	for i := range sc.Steps {
		step := &sc.Steps[i]
		step.Run = strings.TrimSpace(step.Run)
		if step.Run == "" {
			return fmt.Errorf("scenario %q: step %d: run is required", sc.Name, i+1)
		}
		if step.Expect != nil && step.Error != "" {
			return fmt.Errorf("scenario %q: step %d: expect and error are exclusive", sc.Name, i+1)
		}
	}
	return nil
}

package scenario

// Suite is the contents of one scenario file.
type Suite struct {
	Path      string
	Scenarios []Scenario
}

// Scenario is a script run against a fresh runtime.
type Scenario struct {
	Name string `yaml:"name"`
	// Setup is JavaScript evaluated before the first step.
	Setup string `yaml:"setup"`
	Steps []Step `yaml:"steps"`
	// Balanced requires every handle to be released once the session is
	// closed. Unset means true.
	Balanced *bool `yaml:"balanced"`
}

// Step is one script command and what it should produce.
type Step struct {
	Run string `yaml:"run"`
	// Expect is compared with the command output when set.
	Expect *string `yaml:"expect"`
	// Error, when set, must occur in the command's error message.
	Error string `yaml:"error"`
}

// RequiresBalance reports whether the scenario checks handle balance.
func (s Scenario) RequiresBalance() bool {
	return s.Balanced == nil || *s.Balanced
}

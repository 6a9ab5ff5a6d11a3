package model

import "fmt"

// ParseIssue records a single field that could not be interpreted.
// Issues degrade the affected record; they never abort a run.
type ParseIssue struct {
	Field  Field  `yaml:"field"`
	Value  string `yaml:"value"`
	Reason string `yaml:"reason"`
	Row    int    `yaml:"row"`
}

func (i ParseIssue) String() string {
	return fmt.Sprintf("row %d: %s %q: %s", i.Row, i.Field, i.Value, i.Reason)
}

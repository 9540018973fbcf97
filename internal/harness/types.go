package harness

import "github.com/roach88/odsgen/internal/binding"

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true if every probe matched and the synthesis outcome was the
	// expected one.
	Pass bool

	// Errors lists every mismatch found.
	Errors []string

	// Outcomes records what each probed accessor selected, in probe order.
	Outcomes []ProbeOutcome

	// Binding is the synthesized binding, nil if synthesis failed.
	Binding *binding.OpBinding

	// Rendered is the generated Python class, empty if synthesis failed.
	Rendered string
}

// ProbeOutcome is one accessor's selection under one probe.
type ProbeOutcome struct {
	Probe     int               `json:"probe"`
	Slot      string            `json:"slot"`
	Accessor  string            `json:"accessor"`
	Selection binding.Selection `json:"selection"`
	Err       string            `json:"error,omitempty"`
}

// NewResult creates a new result, passing until an error is added.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Errors:   []string{},
		Outcomes: []ProbeOutcome{},
	}
}

// AddError records a failure and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

package harness

import (
	"fmt"

	"github.com/roach88/odsgen/internal/binding"
	"github.com/roach88/odsgen/internal/ods"
	"github.com/roach88/odsgen/internal/render/python"
)

// Run executes a scenario and returns the result.
//
// An error is returned only when the scenario's operation cannot be built at
// all (an unknown trait or multiplicity, say). Synthesis failures and probe
// mismatches are recorded on the Result.
//
// Execution flow:
// 1. Build the operation from its definition
// 2. Synthesize the binding and check it against expect_error
// 3. Evaluate every probe through the accessors' Locate
// 4. Render the Python class
func Run(scenario *Scenario) (*Result, error) {
	op, err := scenario.Operation.Build(scenario.Dialect)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	renderer := python.New()
	result := NewResult()

	b, err := binding.Synthesize(op, renderer.Resolver())
	if err != nil {
		checkSynthesisError(scenario, err, result)
		return result, nil
	}
	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected synthesis error %s, but synthesis succeeded", scenario.ExpectError))
	}
	result.Binding = b

	for i, probe := range scenario.Probes {
		runProbe(i, probe, b, result)
	}

	rendered, err := renderer.RenderOp(b)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: render: %w", scenario.Name, err)
	}
	result.Rendered = rendered

	return result, nil
}

func checkSynthesisError(scenario *Scenario, err error, result *Result) {
	code := binding.Code(err)
	switch {
	case scenario.ExpectError == "":
		result.AddError(fmt.Sprintf("synthesis failed: %v", err))
	case string(code) != scenario.ExpectError:
		result.AddError(fmt.Sprintf("expected synthesis error %s, got %s: %v", scenario.ExpectError, code, err))
	}
}

// runProbe evaluates one probe, recording an outcome per expected slot.
func runProbe(index int, probe Probe, b *binding.OpBinding, result *Result) {
	kind, _ := ods.ParseKind(probe.Kind) // checked by validateScenario
	accessors := b.Operands
	if kind == ods.Result {
		accessors = b.Results
	}

	rt := probe.Runtime()
	for _, slot := range probe.slotNames() {
		acc, ok := findAccessor(accessors, slot)
		if !ok {
			result.AddError(fmt.Sprintf("probes[%d]: no %s accessor for slot %q", index, kind, slot))
			continue
		}

		sel, err := acc.Locate(rt)
		outcome := ProbeOutcome{Probe: index, Slot: slot, Accessor: acc.Name, Selection: sel}
		if err != nil {
			outcome.Err = err.Error()
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if probe.Fails {
			if err == nil {
				result.AddError(fmt.Sprintf("probes[%d].%s: expected failure, got [%d, %d)", index, slot, sel.Start, sel.End))
			}
			continue
		}
		if err != nil {
			result.AddError(fmt.Sprintf("probes[%d].%s: %v", index, slot, err))
			continue
		}

		want := probe.Expect[slot]
		got := Expectation{Start: sel.Start, End: sel.End, Absent: sel.Absent, Unwrap: sel.Unwrap}
		if got != want {
			result.AddError(fmt.Sprintf("probes[%d].%s: expected %s, got %s", index, slot, want, got))
		}
	}
}

func findAccessor(set binding.ElementAccessors, slot string) (binding.AccessorSpec, bool) {
	for _, a := range set.Accessors {
		if a.SlotName == slot {
			return a, true
		}
	}
	return binding.AccessorSpec{}, false
}

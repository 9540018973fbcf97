// Package harness provides a conformance testing framework for binding synthesis.
//
// A scenario is a YAML file holding one operation definition and a list of
// probes. Each probe describes a runtime shape (the element count and, for
// segment-sized kinds, the segment sizes) and the range every named accessor
// must select for that shape. Run synthesizes the binding, evaluates every
// probe through AccessorSpec.Locate and renders the Python class so callers
// can compare it against a golden file.
//
// Example scenario:
//
//	name: equal_size_pair
//	description: two variadic operands of equal length
//	operation:
//	  name: test.pair
//	  class: PairOp
//	  traits: [SameVariadicOperandSize]
//	  arguments:
//	    - {operand: x, multiplicity: variadic}
//	    - {operand: y, multiplicity: variadic}
//	probes:
//	  - kind: operand
//	    count: 6
//	    expect:
//	      x: {start: 0, end: 3}
//	      y: {start: 3, end: 6}
//
// A scenario whose operation cannot be bound sets expect_error to the
// synthesis error code instead of listing probes.
package harness

package binding

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/odsgen/internal/ods"
)

// Policy is the slot-shape policy used to locate elements of one kind.
type Policy int

const (
	// PolicyCountInferred: at most one variable-length slot, whose length is
	// whatever the fixed slots leave over.
	PolicyCountInferred Policy = iota
	// PolicyEqualSize: all variable-length groups share one length.
	PolicyEqualSize
	// PolicySegmentAttr: a runtime segment-size attribute records each length.
	PolicySegmentAttr
)

var policyNames = map[Policy]string{
	PolicyCountInferred: "count_inferred",
	PolicyEqualSize:     "equal_size",
	PolicySegmentAttr:   "segment_attr",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

func (p Policy) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

// Shape says how one accessor computes its value(s).
type Shape int

const (
	// ShapeFixed reads the element at the declared index.
	ShapeFixed Shape = iota
	// ShapeAfterVariable reads a fixed slot that trails the variable group.
	ShapeAfterVariable
	// ShapeOptionalInferred reads the only variable slot, an optional one.
	ShapeOptionalInferred
	// ShapeVariadicInferred slices the only variable slot, a variadic one.
	ShapeVariadicInferred
	// ShapeEqualSimple reads a fixed slot among equal-size groups.
	ShapeEqualSimple
	// ShapeEqualVariadic slices a variable slot among equal-size groups.
	ShapeEqualVariadic
	// ShapeSegmentSingle unwraps a length-1 segment.
	ShapeSegmentSingle
	// ShapeSegmentOptional unwraps a length-0-or-1 segment.
	ShapeSegmentOptional
	// ShapeSegmentVariadic slices a segment.
	ShapeSegmentVariadic
)

var shapeNames = map[Shape]string{
	ShapeFixed:            "fixed",
	ShapeAfterVariable:    "after_variable",
	ShapeOptionalInferred: "optional_inferred",
	ShapeVariadicInferred: "variadic_inferred",
	ShapeEqualSimple:      "equal_simple",
	ShapeEqualVariadic:    "equal_variadic",
	ShapeSegmentSingle:    "segment_single",
	ShapeSegmentOptional:  "segment_optional",
	ShapeSegmentVariadic:  "segment_variadic",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

func (s Shape) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// AccessorSpec describes how to compute one named slot's value(s) from the
// full runtime sequence of its kind.
type AccessorSpec struct {
	Name         string           `json:"name"`      // resolved identifier
	SlotName     string           `json:"slot_name"` // declared name
	Kind         ods.Kind         `json:"kind"`
	Index        int              `json:"index"` // declared position
	Multiplicity ods.Multiplicity `json:"multiplicity"`
	Policy       Policy           `json:"policy"`
	Shape        Shape            `json:"shape"`

	NumDeclared int `json:"num_declared"`
	NumSimple   int `json:"num_simple"`
	NumVariable int `json:"num_variable"`

	// Equal-size fold state: slots of each class before this one.
	PrecedingSimple   int `json:"preceding_simple"`
	PrecedingVariadic int `json:"preceding_variadic"`
}

// ElementAccessors is the accessor set for one kind of one operation.
type ElementAccessors struct {
	Kind      ods.Kind       `json:"kind"`
	Policy    Policy         `json:"policy"`
	Accessors []AccessorSpec `json:"accessors"`
}

// SelectPolicy picks the slot-shape policy for a kind, in priority order
// count-inferred, equal-size, segment attribute.
func SelectPolicy(op *ods.Operation, kind ods.Kind) (Policy, error) {
	if op.Traits.ConflictingSizePolicies(kind) {
		return 0, newConflictingTraits(op, kind)
	}
	if op.NumVariableLength(kind) <= 1 {
		return PolicyCountInferred, nil
	}
	if op.Traits.Has(ods.SameSizeTrait(kind)) {
		return PolicyEqualSize, nil
	}
	if op.Traits.Has(ods.AttrSizedTrait(kind)) {
		return PolicySegmentAttr, nil
	}
	return 0, newUnsupportedShape(op, kind)
}

// foldState counts the slots already visited, by class.
type foldState struct {
	simple   int
	variable int
}

func (s foldState) step(slot ods.Slot) foldState {
	if slot.Multiplicity.IsVariableLength() {
		s.variable++
	} else {
		s.simple++
	}
	return s
}

// classify maps a slot to its accessor shape given the slots before it.
func classify(policy Policy, slot ods.Slot, before foldState) Shape {
	variable := slot.Multiplicity.IsVariableLength()
	switch policy {
	case PolicyEqualSize:
		if variable {
			return ShapeEqualVariadic
		}
		return ShapeEqualSimple
	case PolicySegmentAttr:
		switch slot.Multiplicity {
		case ods.Optional:
			return ShapeSegmentOptional
		case ods.Variadic:
			return ShapeSegmentVariadic
		}
		return ShapeSegmentSingle
	}
	switch {
	case slot.Multiplicity == ods.Optional:
		return ShapeOptionalInferred
	case slot.Multiplicity == ods.Variadic:
		return ShapeVariadicInferred
	case before.variable > 0:
		return ShapeAfterVariable
	}
	return ShapeFixed
}

// SynthesizeElements computes accessor specs for every named slot of a kind.
// Unnamed slots contribute to layout but get no accessor.
func SynthesizeElements(op *ods.Operation, kind ods.Kind, r Resolver) (ElementAccessors, error) {
	policy, err := SelectPolicy(op, kind)
	if err != nil {
		return ElementAccessors{}, err
	}

	elems := op.Elements(kind)
	numVariable := op.NumVariableLength(kind)
	out := ElementAccessors{Kind: kind, Policy: policy}

	var state foldState
	for i, slot := range elems {
		if slot.Named() {
			out.Accessors = append(out.Accessors, AccessorSpec{
				Name:              r.Resolve(slot.Name),
				SlotName:          slot.Name,
				Kind:              kind,
				Index:             i,
				Multiplicity:      slot.Multiplicity,
				Policy:            policy,
				Shape:             classify(policy, slot, state),
				NumDeclared:       len(elems),
				NumSimple:         len(elems) - numVariable,
				NumVariable:       numVariable,
				PrecedingSimple:   state.simple,
				PrecedingVariadic: state.variable,
			})
		}
		state = state.step(slot)
	}
	return out, nil
}

// SegmentSpec describes each declared slot's static length for the segment
// attribute policy: 1 single, 0 optional, -1 variadic.
func SegmentSpec(op *ods.Operation, kind ods.Kind) []int {
	elems := op.Elements(kind)
	spec := make([]int, len(elems))
	for i, slot := range elems {
		switch slot.Multiplicity {
		case ods.Optional:
			spec[i] = 0
		case ods.Variadic:
			spec[i] = -1
		default:
			spec[i] = 1
		}
	}
	return spec
}

package ods

import (
	"encoding/json"
	"fmt"
)

// Multiplicity describes how many runtime elements a slot can bind.
type Multiplicity int

const (
	// Single binds exactly one element.
	Single Multiplicity = iota
	// Optional binds zero or one element.
	Optional
	// Variadic binds zero or more elements.
	Variadic
)

var multiplicityNames = map[Multiplicity]string{
	Single:   "single",
	Optional: "optional",
	Variadic: "variadic",
}

func (m Multiplicity) String() string {
	if s, ok := multiplicityNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Multiplicity(%d)", int(m))
}

// IsVariableLength reports whether the slot's runtime length is not fixed at 1.
func (m Multiplicity) IsVariableLength() bool {
	return m == Optional || m == Variadic
}

// ParseMultiplicity converts "single", "optional" or "variadic" to a Multiplicity.
// The empty string means single.
func ParseMultiplicity(s string) (Multiplicity, error) {
	switch s {
	case "", "single":
		return Single, nil
	case "optional":
		return Optional, nil
	case "variadic":
		return Variadic, nil
	}
	return Single, fmt.Errorf("unknown multiplicity %q", s)
}

func (m Multiplicity) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Multiplicity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMultiplicity(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// UnmarshalYAML lets scenario files spell multiplicities as strings.
func (m *Multiplicity) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseMultiplicity(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Slot is one operand or result position.
type Slot struct {
	Name         string       `json:"name,omitempty" yaml:"name"`
	Multiplicity Multiplicity `json:"multiplicity" yaml:"multiplicity"`
}

// Named reports whether the slot is exposed through an accessor.
func (s Slot) Named() bool { return s.Name != "" }

// AttrKind classifies how an attribute's presence is constrained.
type AttrKind int

const (
	// Mandatory attributes must always be present.
	Mandatory AttrKind = iota
	// OptionalAttr attributes may be absent.
	OptionalAttr
	// DefaultValued attributes may be omitted by the caller; the host fills a default.
	DefaultValued
	// Unit attributes carry no value: presence means true.
	Unit
)

var attrKindNames = map[AttrKind]string{
	Mandatory:     "mandatory",
	OptionalAttr:  "optional",
	DefaultValued: "default",
	Unit:          "unit",
}

func (k AttrKind) String() string {
	if s, ok := attrKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("AttrKind(%d)", int(k))
}

// ParseAttrKind converts a kind name. The empty string means mandatory.
func ParseAttrKind(s string) (AttrKind, error) {
	switch s {
	case "", "mandatory":
		return Mandatory, nil
	case "optional":
		return OptionalAttr, nil
	case "default", "default_valued":
		return DefaultValued, nil
	case "unit":
		return Unit, nil
	}
	return Mandatory, fmt.Errorf("unknown attribute kind %q", s)
}

func (k AttrKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *AttrKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAttrKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalYAML lets scenario files spell attribute kinds as strings.
func (k *AttrKind) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseAttrKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MayBeAbsent reports whether callers may leave the attribute unset.
func (k AttrKind) MayBeAbsent() bool {
	return k != Mandatory
}

// AttributeSlot is a named attribute position.
type AttributeSlot struct {
	Name     string   `json:"name" yaml:"name"`
	Kind     AttrKind `json:"kind" yaml:"kind"`
	TypeName string   `json:"type_name" yaml:"type"` // declared attribute definition, e.g. "I64Attr"
	Derived  bool     `json:"derived,omitempty" yaml:"derived"`
}

// RegionSlot is a region position. Only the last region may be variadic.
type RegionSlot struct {
	Name     string `json:"name,omitempty" yaml:"name"`
	Variadic bool   `json:"variadic,omitempty" yaml:"variadic"`
}

// SuccessorSlot is a successor position.
type SuccessorSlot struct {
	Name     string `json:"name,omitempty" yaml:"name"`
	Variadic bool   `json:"variadic,omitempty" yaml:"variadic"`
}

// Argument locates one builder argument: an operand or a native attribute,
// in declaration order.
type Argument struct {
	Attribute bool `json:"attribute,omitempty" yaml:"attribute"`
	Index     int  `json:"index" yaml:"index"`
}

// Kind selects the operand or result sequence of an operation.
type Kind int

const (
	Operand Kind = iota
	Result
)

func (k Kind) String() string {
	if k == Result {
		return "result"
	}
	return "operand"
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// SegmentAttrName is the runtime attribute holding per-slot lengths,
// "operandSegmentSizes" or "resultSegmentSizes".
func (k Kind) SegmentAttrName() string {
	return k.String() + "SegmentSizes"
}

// ParseKind converts "operand" or "result" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "operand":
		return Operand, nil
	case "result":
		return Result, nil
	}
	return Operand, fmt.Errorf("unknown slot kind %q", s)
}

// Operation is the structural description of one operation definition.
type Operation struct {
	Name       string          `json:"name"`       // unique operation name, e.g. "arith.addi"
	ClassName  string          `json:"class_name"` // binding class name, e.g. "AddIOp"
	Dialect    string          `json:"dialect"`
	Operands   []Slot          `json:"operands"`
	Results    []Slot          `json:"results"`
	Attributes []AttributeSlot `json:"attributes"`
	Arguments  []Argument      `json:"arguments,omitempty"` // empty = operands then native attributes
	Regions    []RegionSlot    `json:"regions"`
	Successors []SuccessorSlot `json:"successors"`
	Traits     TraitSet        `json:"traits"`
}

// Elements returns the operand or result sequence.
func (op *Operation) Elements(kind Kind) []Slot {
	if kind == Result {
		return op.Results
	}
	return op.Operands
}

// NumVariableLength counts the optional and variadic slots of a kind.
func (op *Operation) NumVariableLength(kind Kind) int {
	n := 0
	for _, s := range op.Elements(kind) {
		if s.Multiplicity.IsVariableLength() {
			n++
		}
	}
	return n
}

// NumVariadicRegions counts variadic regions.
func (op *Operation) NumVariadicRegions() int {
	n := 0
	for _, r := range op.Regions {
		if r.Variadic {
			n++
		}
	}
	return n
}

// HasNoVariadicRegions reports whether every region is fixed.
func (op *Operation) HasNoVariadicRegions() bool {
	return op.NumVariadicRegions() == 0
}

// Args returns builder arguments in declaration order. When Arguments is unset
// the order is every operand followed by every non-derived attribute.
func (op *Operation) Args() []Argument {
	if len(op.Arguments) > 0 {
		return op.Arguments
	}
	args := make([]Argument, 0, len(op.Operands)+len(op.Attributes))
	for i := range op.Operands {
		args = append(args, Argument{Index: i})
	}
	for i, a := range op.Attributes {
		if a.Derived {
			continue
		}
		args = append(args, Argument{Attribute: true, Index: i})
	}
	return args
}

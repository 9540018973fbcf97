package ods

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
)

// Trait is a named boolean fact about an operation that affects binding synthesis.
type Trait uint16

const (
	SameVariadicOperandSize Trait = 1 << iota
	SameVariadicResultSize
	AttrSizedOperandSegments
	AttrSizedResultSegments
	SameOperandsAndResultType
	FirstAttrDerivedResultType
	InferTypeInterface
	SkipDefaultBuilders
)

// allTraits is in declaration order; String and MarshalJSON iterate it.
var allTraits = []Trait{
	SameVariadicOperandSize,
	SameVariadicResultSize,
	AttrSizedOperandSegments,
	AttrSizedResultSegments,
	SameOperandsAndResultType,
	FirstAttrDerivedResultType,
	InferTypeInterface,
	SkipDefaultBuilders,
}

var traitNames = map[Trait]string{
	SameVariadicOperandSize:    "SameVariadicOperandSize",
	SameVariadicResultSize:     "SameVariadicResultSize",
	AttrSizedOperandSegments:   "AttrSizedOperandSegments",
	AttrSizedResultSegments:    "AttrSizedResultSegments",
	SameOperandsAndResultType:  "SameOperandsAndResultType",
	FirstAttrDerivedResultType: "FirstAttrDerivedResultType",
	InferTypeInterface:         "InferTypeInterface",
	SkipDefaultBuilders:        "SkipDefaultBuilders",
}

// qualifiedTraits maps the C++ spellings found in ODS records.
var qualifiedTraits = map[string]Trait{
	"::mlir::OpTrait::SameVariadicOperandSize":    SameVariadicOperandSize,
	"::mlir::OpTrait::SameVariadicResultSize":     SameVariadicResultSize,
	"::mlir::OpTrait::AttrSizedOperandSegments":   AttrSizedOperandSegments,
	"::mlir::OpTrait::AttrSizedResultSegments":    AttrSizedResultSegments,
	"::mlir::OpTrait::SameOperandsAndResultType":  SameOperandsAndResultType,
	"::mlir::OpTrait::FirstAttrDerivedResultType": FirstAttrDerivedResultType,
	"::mlir::InferTypeOpInterface::Trait":         InferTypeInterface,
}

func (t Trait) String() string {
	if s, ok := traitNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Trait(%#x)", uint16(t))
}

// ParseTrait accepts the bare trait name or its qualified C++ spelling.
func ParseTrait(s string) (Trait, error) {
	s = strings.TrimSpace(s)
	if t, ok := qualifiedTraits[s]; ok {
		return t, nil
	}
	for t, name := range traitNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown trait %q", s)
}

// SameSizeTrait returns the equal-size policy trait for a kind.
func SameSizeTrait(kind Kind) Trait {
	if kind == Result {
		return SameVariadicResultSize
	}
	return SameVariadicOperandSize
}

// AttrSizedTrait returns the segment-size-attribute policy trait for a kind.
func AttrSizedTrait(kind Kind) Trait {
	if kind == Result {
		return AttrSizedResultSegments
	}
	return AttrSizedOperandSegments
}

// TraitSet is an immutable set of traits.
type TraitSet uint16

// NewTraitSet builds a set from traits.
func NewTraitSet(traits ...Trait) TraitSet {
	var s TraitSet
	for _, t := range traits {
		s |= TraitSet(t)
	}
	return s
}

// ParseTraitSet builds a set from trait names.
func ParseTraitSet(names []string) (TraitSet, error) {
	var s TraitSet
	for _, n := range names {
		t, err := ParseTrait(n)
		if err != nil {
			return 0, err
		}
		s |= TraitSet(t)
	}
	return s, nil
}

// Has reports whether t is in the set.
func (s TraitSet) Has(t Trait) bool {
	return s&TraitSet(t) != 0
}

// With returns a copy of the set including t.
func (s TraitSet) With(t Trait) TraitSet {
	return s | TraitSet(t)
}

// Len returns the number of traits in the set.
func (s TraitSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// Traits lists the set members in declaration order.
func (s TraitSet) Traits() []Trait {
	var out []Trait
	for _, t := range allTraits {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Names lists the member names in declaration order.
func (s TraitSet) Names() []string {
	traits := s.Traits()
	names := make([]string, len(traits))
	for i, t := range traits {
		names[i] = t.String()
	}
	return names
}

func (s TraitSet) String() string {
	return "{" + strings.Join(s.Names(), ", ") + "}"
}

// ConflictingSizePolicies reports whether both variable-length policies are
// declared for the same kind.
func (s TraitSet) ConflictingSizePolicies(kind Kind) bool {
	return s.Has(SameSizeTrait(kind)) && s.Has(AttrSizedTrait(kind))
}

func (s TraitSet) MarshalJSON() ([]byte, error) {
	names := s.Names()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

func (s *TraitSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParseTraitSet(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalYAML lets scenario files list traits by name.
func (s *TraitSet) UnmarshalYAML(unmarshal func(any) error) error {
	var names []string
	if err := unmarshal(&names); err != nil {
		return err
	}
	parsed, err := ParseTraitSet(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

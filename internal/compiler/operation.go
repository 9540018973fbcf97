package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/odsgen/internal/ods"
)

// OperationDef is an operation definition as written in a spec file, before
// names such as multiplicities and traits are resolved. Validate reports
// every problem in an OperationDef; Build converts a valid one.
type OperationDef struct {
	Name              string           `json:"name" yaml:"name"`
	ClassName         string           `json:"class" yaml:"class"`
	Traits            []string         `json:"traits,omitempty" yaml:"traits"`
	Arguments         []ArgumentDef    `json:"arguments,omitempty" yaml:"arguments"`
	Results           []SlotDef        `json:"results,omitempty" yaml:"results"`
	Regions           []RegionDef      `json:"regions,omitempty" yaml:"regions"`
	Successors        []RegionDef      `json:"successors,omitempty" yaml:"successors"`
	DerivedAttributes []DerivedAttrDef `json:"derived_attributes,omitempty" yaml:"derived_attributes"`

	Pos token.Pos `json:"-" yaml:"-"` // position of the definition, if decoded from CUE
}

// ArgumentDef is one builder argument: exactly one of Operand or Attribute is set.
type ArgumentDef struct {
	Operand      *string `json:"operand,omitempty" yaml:"operand"`
	Attribute    *string `json:"attribute,omitempty" yaml:"attribute"`
	Multiplicity string  `json:"multiplicity,omitempty" yaml:"multiplicity"` // operands only
	Kind         string  `json:"kind,omitempty" yaml:"kind"`                 // attributes only
	Type         string  `json:"type,omitempty" yaml:"type"`                 // attributes only
}

// SlotDef is a result declaration.
type SlotDef struct {
	Name         string `json:"name,omitempty" yaml:"name"`
	Multiplicity string `json:"multiplicity,omitempty" yaml:"multiplicity"`
}

// RegionDef declares a region or a successor.
type RegionDef struct {
	Name     string `json:"name,omitempty" yaml:"name"`
	Variadic bool   `json:"variadic,omitempty" yaml:"variadic"`
}

// DerivedAttrDef declares an attribute computed by the op; it gets no builder argument.
type DerivedAttrDef struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type"`
}

// CompileOperation parses a CUE operation struct into an ods.Operation.
// Uses the CUE SDK's Go API directly.
//
// The value should be the operation struct itself; its label is the class name:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`operation: AddOp: { name: "test.add" }`)
//	op, err := CompileOperation(v.LookupPath(cue.ParsePath("operation.AddOp")), "test")
//
// An empty dialect is taken from the operation name's prefix.
func CompileOperation(v cue.Value, dialect string) (*ods.Operation, error) {
	def, err := DecodeOperation(v)
	if err != nil {
		return nil, err
	}
	return def.Build(dialect)
}

// DecodeOperation reads the raw definition without resolving names.
func DecodeOperation(v cue.Value) (*OperationDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &OperationDef{Pos: v.Pos()}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		def.ClassName = labels[len(labels)-1].String()
	}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{Field: "name", Message: "name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	def.Name = name

	if def.Traits, err = stringList(v, "traits"); err != nil {
		return nil, err
	}
	if def.Arguments, err = parseArguments(v); err != nil {
		return nil, err
	}
	if def.Results, err = parseResults(v); err != nil {
		return nil, err
	}
	if def.Regions, err = parseRegions(v, "regions"); err != nil {
		return nil, err
	}
	if def.Successors, err = parseRegions(v, "successors"); err != nil {
		return nil, err
	}
	if def.DerivedAttributes, err = parseDerived(v); err != nil {
		return nil, err
	}
	return def, nil
}

func parseArguments(v cue.Value) ([]ArgumentDef, error) {
	var args []ArgumentDef
	err := eachListItem(v, "arguments", func(item cue.Value) error {
		var arg ArgumentDef
		operand, hasOperand, err := optionalString(item, "operand")
		if err != nil {
			return err
		}
		attribute, hasAttribute, err := optionalString(item, "attribute")
		if err != nil {
			return err
		}
		if hasOperand {
			arg.Operand = &operand
		}
		if hasAttribute {
			arg.Attribute = &attribute
		}
		if arg.Multiplicity, _, err = optionalString(item, "multiplicity"); err != nil {
			return err
		}
		if arg.Kind, _, err = optionalString(item, "kind"); err != nil {
			return err
		}
		if arg.Type, _, err = optionalString(item, "type"); err != nil {
			return err
		}
		args = append(args, arg)
		return nil
	})
	return args, err
}

func parseResults(v cue.Value) ([]SlotDef, error) {
	var results []SlotDef
	err := eachListItem(v, "results", func(item cue.Value) error {
		var slot SlotDef
		var err error
		if slot.Name, _, err = optionalString(item, "name"); err != nil {
			return err
		}
		if slot.Multiplicity, _, err = optionalString(item, "multiplicity"); err != nil {
			return err
		}
		results = append(results, slot)
		return nil
	})
	return results, err
}

func parseRegions(v cue.Value, field string) ([]RegionDef, error) {
	var regions []RegionDef
	err := eachListItem(v, field, func(item cue.Value) error {
		var r RegionDef
		var err error
		if r.Name, _, err = optionalString(item, "name"); err != nil {
			return err
		}
		if variadic := item.LookupPath(cue.ParsePath("variadic")); variadic.Exists() {
			if r.Variadic, err = variadic.Bool(); err != nil {
				return formatCUEError(err)
			}
		}
		regions = append(regions, r)
		return nil
	})
	return regions, err
}

func parseDerived(v cue.Value) ([]DerivedAttrDef, error) {
	var derived []DerivedAttrDef
	err := eachListItem(v, "derived_attributes", func(item cue.Value) error {
		var d DerivedAttrDef
		var err error
		if d.Name, _, err = optionalString(item, "name"); err != nil {
			return err
		}
		if d.Type, _, err = optionalString(item, "type"); err != nil {
			return err
		}
		derived = append(derived, d)
		return nil
	})
	return derived, err
}

// eachListItem calls fn for every element of an optional list field.
func eachListItem(v cue.Value, field string, fn func(cue.Value) error) error {
	list := v.LookupPath(cue.ParsePath(field))
	if !list.Exists() {
		return nil
	}
	iter, err := list.List()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if err := fn(iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	var out []string
	err := eachListItem(v, field, func(item cue.Value) error {
		s, err := item.String()
		if err != nil {
			return formatCUEError(err)
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func optionalString(v cue.Value, field string) (string, bool, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", false, nil
	}
	s, err := f.String()
	if err != nil {
		return "", true, formatCUEError(err)
	}
	return s, true, nil
}

// Build resolves names and returns the operation. It stops at the first
// problem; use Validate to see all of them.
func (def *OperationDef) Build(dialect string) (*ods.Operation, error) {
	if dialect == "" {
		dialect, _, _ = strings.Cut(def.Name, ".")
	}
	op := &ods.Operation{
		Name:      def.Name,
		ClassName: def.ClassName,
		Dialect:   dialect,
	}

	var err error
	if op.Traits, err = ods.ParseTraitSet(def.Traits); err != nil {
		return nil, def.errorf("traits", "%v", err)
	}

	for i, arg := range def.Arguments {
		switch {
		case arg.Operand != nil && arg.Attribute == nil:
			m, err := ods.ParseMultiplicity(arg.Multiplicity)
			if err != nil {
				return nil, def.errorf(fmt.Sprintf("arguments[%d].multiplicity", i), "%v", err)
			}
			op.Arguments = append(op.Arguments, ods.Argument{Index: len(op.Operands)})
			op.Operands = append(op.Operands, ods.Slot{Name: *arg.Operand, Multiplicity: m})
		case arg.Attribute != nil && arg.Operand == nil:
			kind, err := ods.ParseAttrKind(arg.Kind)
			if err != nil {
				return nil, def.errorf(fmt.Sprintf("arguments[%d].kind", i), "%v", err)
			}
			op.Arguments = append(op.Arguments, ods.Argument{Attribute: true, Index: len(op.Attributes)})
			op.Attributes = append(op.Attributes, ods.AttributeSlot{Name: *arg.Attribute, Kind: kind, TypeName: arg.Type})
		default:
			return nil, def.errorf(fmt.Sprintf("arguments[%d]", i), "exactly one of operand or attribute must be set")
		}
	}

	for i, res := range def.Results {
		m, err := ods.ParseMultiplicity(res.Multiplicity)
		if err != nil {
			return nil, def.errorf(fmt.Sprintf("results[%d].multiplicity", i), "%v", err)
		}
		op.Results = append(op.Results, ods.Slot{Name: res.Name, Multiplicity: m})
	}
	for _, d := range def.DerivedAttributes {
		op.Attributes = append(op.Attributes, ods.AttributeSlot{Name: d.Name, TypeName: d.Type, Derived: true})
	}
	for _, r := range def.Regions {
		op.Regions = append(op.Regions, ods.RegionSlot{Name: r.Name, Variadic: r.Variadic})
	}
	for _, s := range def.Successors {
		op.Successors = append(op.Successors, ods.SuccessorSlot{Name: s.Name, Variadic: s.Variadic})
	}
	return op, nil
}

func (def *OperationDef) errorf(field, format string, args ...any) *CompileError {
	return &CompileError{Field: field, Message: fmt.Sprintf(format, args...), Pos: def.Pos}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// First error with position info wins.
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

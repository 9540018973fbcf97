package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/odsgen/internal/binding"
	"github.com/roach88/odsgen/internal/ods"
)

// Validation error codes (E200-E299)
const (
	ErrUnsupportedType = "E200" // unsupported value passed to Validate

	ErrOperationName        = "E201" // missing or malformed operation name
	ErrBadMultiplicity      = "E202" // unknown operand/result multiplicity
	ErrBadAttributeKind     = "E203" // unknown attribute kind
	ErrDuplicateSlotName    = "E204" // two slots share a name
	ErrMalformedRegions     = "E205" // several variadic regions, or one not last
	ErrConflictingSizeTrait = "E206" // both size policies for one kind
	ErrUnsupportedShape     = "E207" // several variable-length groups without a size policy
	ErrMissingTypeSource    = "E208" // FirstAttrDerivedResultType without a named first attribute
	ErrUnknownTrait         = "E209" // trait name not recognized
	ErrInvalidArgument      = "E210" // argument entry must set exactly one of operand/attribute
	ErrInvalidIdentifier    = "E211" // slot name is not an identifier
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks an OperationDef or an ods.Operation.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch op := v.(type) {
	case *OperationDef:
		return validateDef(op)
	case OperationDef:
		return validateDef(&op)
	case *ods.Operation:
		return validateOperation(op, 0)
	case ods.Operation:
		return validateOperation(&op, 0)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type: %T", v),
			Code:    ErrUnsupportedType,
		}}
	}
}

// operationNamePattern matches "dialect.op", where op may itself contain dots.
var operationNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\.[A-Za-z0-9_.]+$`)

// identifierPattern matches names usable as generated members.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateDef(def *OperationDef) []ValidationError {
	line := 0
	if def.Pos.IsValid() {
		line = def.Pos.Line()
	}
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code, Line: line})
	}

	for i, name := range def.Traits {
		if _, err := ods.ParseTrait(name); err != nil {
			add(fmt.Sprintf("traits[%d]", i), ErrUnknownTrait, "unknown trait %q", name)
		}
	}

	for i, arg := range def.Arguments {
		field := fmt.Sprintf("arguments[%d]", i)
		switch {
		case arg.Operand != nil && arg.Attribute != nil:
			add(field, ErrInvalidArgument, "argument sets both operand %q and attribute %q", *arg.Operand, *arg.Attribute)
		case arg.Operand != nil:
			if _, err := ods.ParseMultiplicity(arg.Multiplicity); err != nil {
				add(field+".multiplicity", ErrBadMultiplicity, "operand %q: %v", *arg.Operand, err)
			}
		case arg.Attribute != nil:
			if _, err := ods.ParseAttrKind(arg.Kind); err != nil {
				add(field+".kind", ErrBadAttributeKind, "attribute %q: %v", *arg.Attribute, err)
			}
		default:
			add(field, ErrInvalidArgument, "argument sets neither operand nor attribute")
		}
	}

	for i, res := range def.Results {
		if _, err := ods.ParseMultiplicity(res.Multiplicity); err != nil {
			add(fmt.Sprintf("results[%d].multiplicity", i), ErrBadMultiplicity, "result %q: %v", res.Name, err)
		}
	}

	if len(errs) > 0 {
		// Structural checks need resolved names; report name-level problems only.
		if strings.TrimSpace(def.Name) == "" {
			add("name", ErrOperationName, "operation name is required")
		}
		return errs
	}

	op, err := def.Build("")
	if err != nil {
		add("operation", ErrInvalidArgument, "%v", err)
		return errs
	}
	return append(errs, validateOperation(op, line)...)
}

func validateOperation(op *ods.Operation, line int) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code, Line: line})
	}

	switch {
	case strings.TrimSpace(op.Name) == "":
		add("name", ErrOperationName, "operation name is required")
	case !operationNamePattern.MatchString(op.Name):
		add("name", ErrOperationName, "operation name %q must have the form <dialect>.<op>", op.Name)
	}

	seen := make(map[string]string)
	checkName := func(field, name string) {
		if name == "" {
			return
		}
		if !identifierPattern.MatchString(name) {
			add(field, ErrInvalidIdentifier, "%q is not a valid identifier", name)
		}
		if prev, ok := seen[name]; ok {
			add(field, ErrDuplicateSlotName, "duplicate slot name %q (also %s)", name, prev)
			return
		}
		seen[name] = field
	}
	for i, s := range op.Operands {
		checkName(fmt.Sprintf("operands[%d]", i), s.Name)
	}
	for i, a := range op.Attributes {
		checkName(fmt.Sprintf("attributes[%d]", i), a.Name)
	}
	for i, s := range op.Results {
		checkName(fmt.Sprintf("results[%d]", i), s.Name)
	}
	for i, r := range op.Regions {
		checkName(fmt.Sprintf("regions[%d]", i), r.Name)
	}
	for i, s := range op.Successors {
		checkName(fmt.Sprintf("successors[%d]", i), s.Name)
	}

	if err := binding.CheckRegions(op); err != nil {
		add("regions", ErrMalformedRegions, "%s", messageOf(err))
	}

	for _, kind := range []ods.Kind{ods.Operand, ods.Result} {
		field := kind.String() + "s"
		if op.Traits.ConflictingSizePolicies(kind) {
			add("traits", ErrConflictingSizeTrait, "both %s and %s are declared",
				ods.SameSizeTrait(kind), ods.AttrSizedTrait(kind))
			continue
		}
		if _, err := binding.SelectPolicy(op, kind); binding.IsUnsupportedShape(err) {
			add(field, ErrUnsupportedShape, "%s", messageOf(err))
		}
	}

	if !op.Traits.Has(ods.SkipDefaultBuilders) && binding.ResultModeFor(op) == binding.ResultsFromFirstAttr {
		if len(op.Attributes) == 0 || op.Attributes[0].Name == "" {
			add("attributes", ErrMissingTypeSource, "FirstAttrDerivedResultType requires a named first attribute")
		}
	}
	return errs
}

// messageOf strips the code and operation prefix from synthesis errors.
func messageOf(err error) string {
	var se *binding.SynthesisError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

package binding

import (
	"errors"
	"fmt"

	"github.com/roach88/odsgen/internal/ods"
)

// ErrorCode categorizes synthesis failures.
type ErrorCode string

const (
	// ErrCodeUnsupportedSlotShape indicates two or more variable-length groups
	// with neither size policy trait.
	ErrCodeUnsupportedSlotShape ErrorCode = "UNSUPPORTED_SLOT_SHAPE"

	// ErrCodeMalformedRegionShape indicates more than one variadic region, or a
	// variadic region that is not last.
	ErrCodeMalformedRegionShape ErrorCode = "MALFORMED_REGION_SHAPE"

	// ErrCodeConflictingTraits indicates both size policies declared for one kind.
	ErrCodeConflictingTraits ErrorCode = "CONFLICTING_TRAITS"

	// ErrCodeMissingTypeSource indicates FirstAttrDerivedResultType without a
	// named first attribute.
	ErrCodeMissingTypeSource ErrorCode = "MISSING_TYPE_SOURCE"
)

// SynthesisError is a generation-time configuration error for one operation.
// It is never retried; the driver decides whether to skip the operation or
// abort the run.
type SynthesisError struct {
	Code      ErrorCode
	Operation string
	Kind      string // "operand", "result", "region" or "" when not kind-specific
	Message   string
}

func (e *SynthesisError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s: %s (%s)", e.Code, e.Operation, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Operation, e.Message)
}

func newUnsupportedShape(op *ods.Operation, kind ods.Kind) *SynthesisError {
	return &SynthesisError{
		Code:      ErrCodeUnsupportedSlotShape,
		Operation: op.Name,
		Kind:      kind.String(),
		Message: fmt.Sprintf("unsupported %s structure: %d variable-length groups without %s or %s",
			kind, op.NumVariableLength(kind), ods.SameSizeTrait(kind), ods.AttrSizedTrait(kind)),
	}
}

func newConflictingTraits(op *ods.Operation, kind ods.Kind) *SynthesisError {
	return &SynthesisError{
		Code:      ErrCodeConflictingTraits,
		Operation: op.Name,
		Kind:      kind.String(),
		Message:   fmt.Sprintf("both %s and %s are declared", ods.SameSizeTrait(kind), ods.AttrSizedTrait(kind)),
	}
}

func newMalformedRegions(op *ods.Operation, message string) *SynthesisError {
	return &SynthesisError{
		Code:      ErrCodeMalformedRegionShape,
		Operation: op.Name,
		Kind:      "region",
		Message:   message,
	}
}

// Code returns the synthesis error code of err, or "" if err is not a SynthesisError.
func Code(err error) ErrorCode {
	var se *SynthesisError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsUnsupportedShape reports whether err is an UnsupportedSlotShape error.
func IsUnsupportedShape(err error) bool {
	return Code(err) == ErrCodeUnsupportedSlotShape
}

// IsMalformedRegions reports whether err is a MalformedRegionShape error.
func IsMalformedRegions(err error) bool {
	return Code(err) == ErrCodeMalformedRegionShape
}

// LocateError reports a runtime shape that an accessor spec cannot index.
type LocateError struct {
	Slot    string
	Message string
}

func (e *LocateError) Error() string {
	return fmt.Sprintf("locate %s: %s", e.Slot, e.Message)
}

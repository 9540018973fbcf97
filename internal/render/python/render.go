// Package python renders operation bindings as Python OpView classes for the
// MLIR Python bindings.
package python

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/odsgen/internal/binding"
	"github.com/roach88/odsgen/internal/ods"
)

// ErrNoDialect is returned when a header is requested without a dialect name.
var ErrNoDialect = errors.New("dialect name not provided")

// Renderer writes Python source. It holds no state and is safe for
// concurrent use.
type Renderer struct{}

// New returns a Python renderer.
func New() *Renderer {
	return &Renderer{}
}

// Resolver returns the name resolver for Python members.
func (r *Renderer) Resolver() binding.Resolver {
	return binding.NewResolver(IsReserved)
}

// WriteHeader writes the module preamble. With a non-empty extension the
// dialect class is imported from the dialect's own generated module instead
// of being declared.
func (r *Renderer) WriteHeader(w io.Writer, dialect, extension string) error {
	if dialect == "" {
		return ErrNoDialect
	}
	e := &emitter{w: w}
	if extension != "" {
		e.printf(fileHeader, extension)
		e.printf(dialectExtension, dialect)
	} else {
		e.printf(fileHeader, dialect)
		e.printf(dialectClass, dialect)
	}
	return e.err
}

// WriteOp writes one operation class.
func (r *Renderer) WriteOp(w io.Writer, b *binding.OpBinding) error {
	e := &emitter{w: w}
	e.emitOp(b)
	return e.err
}

// RenderOp returns one operation class as a string.
func (r *Renderer) RenderOp(b *binding.OpBinding) (string, error) {
	var buf bytes.Buffer
	if err := r.WriteOp(&buf, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// emitter writes through w and keeps the first write error.
type emitter struct {
	w   io.Writer
	err error
}

func (e *emitter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *emitter) emitOp(b *binding.OpBinding) {
	e.printf(opClass, b.ClassName, b.Name)

	if b.OperandSegments != nil {
		e.emitSegments(ods.Operand, b.OperandSegments)
	}
	if b.ResultSegments != nil {
		e.emitSegments(ods.Result, b.ResultSegments)
	}
	e.printf(regionSpec, b.Regions.MinCount, pyBool(b.Regions.NoVariadic))

	if b.Builder != nil {
		e.emitInit(b.Builder)
	}
	e.emitElements(b.Operands)
	for _, attr := range b.Attributes {
		e.emitAttribute(attr)
	}
	e.emitElements(b.Results)
	for _, region := range b.RegionAccessors {
		index := fmt.Sprint(region.Index)
		if region.Variadic {
			index += ":"
		}
		e.printf(property, region.Name)
		e.printf(regionBody, index)
	}
}

func (e *emitter) emitSegments(kind ods.Kind, spec []int) {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, n := range spec {
		fmt.Fprintf(&sb, "%d,", n)
	}
	sb.WriteByte(']')
	e.printf(sizedSegments, cases.Upper(language.Und).String(kind.String()), sb.String())
}

func (e *emitter) emitInit(plan *binding.BuilderPlan) {
	sig := plan.Signature()
	args := make([]string, 0, len(sig.Positional)+len(sig.Keyword)+len(sig.Context)+1)
	for _, p := range sig.Positional {
		args = append(args, p.Name)
	}
	args = append(args, "*")
	for _, p := range sig.Keyword {
		args = append(args, p.Name+"=None")
	}
	for _, name := range sig.Context {
		args = append(args, name+"=None")
	}

	var body strings.Builder
	for _, stmt := range plan.Statements {
		for _, line := range statementLines(stmt) {
			body.WriteString("    ")
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}

	initArgs := []string{"attributes=attributes"}
	if plan.PassResults {
		initArgs = append(initArgs, "results=results")
	}
	initArgs = append(initArgs,
		"operands=operands",
		"successors=_ods_successors",
		"regions=regions",
		"loc=loc",
		"ip=ip",
	)

	e.printf(initTemplate, strings.Join(args, ", "), body.String(), strings.Join(initArgs, ", "))
}

func (e *emitter) emitElements(ea binding.ElementAccessors) {
	for _, a := range ea.Accessors {
		kind := a.Kind.String()
		e.printf(property, a.Name)
		switch a.Shape {
		case binding.ShapeFixed:
			e.printf(fixedBody, kind, a.Index)
		case binding.ShapeAfterVariable:
			e.printf(afterVariableBody, kind, a.NumDeclared, a.Index)
		case binding.ShapeOptionalInferred:
			e.printf(optionalBody, kind, a.NumDeclared, a.Index)
		case binding.ShapeVariadicInferred:
			e.printf(variadicBody, kind, a.NumDeclared, a.Index)
		case binding.ShapeEqualSimple:
			e.printf(equalPrefix, kind, a.NumSimple, a.NumVariable, a.PrecedingSimple, a.PrecedingVariadic)
			e.printf(equalSimpleBody, kind)
		case binding.ShapeEqualVariadic:
			e.printf(equalPrefix, kind, a.NumSimple, a.NumVariable, a.PrecedingSimple, a.PrecedingVariadic)
			e.printf(equalVariadicBody, kind)
		case binding.ShapeSegmentSingle:
			e.printf(segmentBody, kind, a.Index, "[0]")
		case binding.ShapeSegmentOptional:
			e.printf(segmentBody, kind, a.Index, fmt.Sprintf("[0] if len(%s_range) > 0 else None", kind))
		case binding.ShapeSegmentVariadic:
			e.printf(segmentBody, kind, a.Index, "")
		default:
			if e.err == nil {
				e.err = fmt.Errorf("%s %s: unknown accessor shape %s", kind, a.SlotName, a.Shape)
			}
		}
	}
}

func (e *emitter) emitAttribute(attr binding.AttributeAccessorSpec) {
	e.printf(property, attr.Name)
	switch attr.Getter {
	case binding.PresenceGetter:
		e.printf(presenceGetterBody, attr.Name, attr.AttrName)
	case binding.OptionalGetter:
		e.printf(optionalGetterBody, attr.Name, attr.AttrName)
	default:
		e.printf(requiredGetterBody, attr.Name, attr.AttrName)
	}
	switch attr.Setter {
	case binding.UnitSetter:
		e.printf(unitSetter, attr.Name, attr.AttrName)
	case binding.OptionalSetter:
		e.printf(optionalSetter, attr.Name, attr.AttrName)
	default:
		e.printf(requiredSetter, attr.Name, attr.AttrName)
	}
	if attr.Deletable {
		e.printf(deleter, attr.Name, attr.AttrName)
	}
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

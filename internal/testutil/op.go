package testutil

import (
	"strconv"

	"github.com/roach88/odsgen/internal/ods"
)

// OpBuilder assembles an ods.Operation for tests. Operands and attributes are
// recorded as builder arguments in call order, so interleaving is explicit.
//
// Example:
//
//	op := testutil.NewOp("test.select", "SelectOp").
//		Operand("cond", ods.Single).
//		Attr("mode", ods.OptionalAttr, "StrAttr").
//		Operand("rest", ods.Variadic).
//		Result("", ods.Single).
//		Build()
type OpBuilder struct {
	op ods.Operation
}

// NewOp starts an operation with the given name and class name.
// The dialect is the name's prefix up to the first dot.
func NewOp(name, className string) *OpBuilder {
	dialect := name
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			dialect = name[:i]
			break
		}
	}
	return &OpBuilder{op: ods.Operation{Name: name, ClassName: className, Dialect: dialect}}
}

// Operand appends an operand slot and its builder argument.
func (b *OpBuilder) Operand(name string, m ods.Multiplicity) *OpBuilder {
	b.op.Arguments = append(b.op.Arguments, ods.Argument{Index: len(b.op.Operands)})
	b.op.Operands = append(b.op.Operands, ods.Slot{Name: name, Multiplicity: m})
	return b
}

// Operands appends one slot per multiplicity, named n0, n1, ... (empty names if prefix is "").
func (b *OpBuilder) Operands(prefix string, ms ...ods.Multiplicity) *OpBuilder {
	for i, m := range ms {
		b.Operand(slotName(prefix, i), m)
	}
	return b
}

// Result appends a result slot.
func (b *OpBuilder) Result(name string, m ods.Multiplicity) *OpBuilder {
	b.op.Results = append(b.op.Results, ods.Slot{Name: name, Multiplicity: m})
	return b
}

// Results appends one result per multiplicity, named like Operands.
func (b *OpBuilder) Results(prefix string, ms ...ods.Multiplicity) *OpBuilder {
	for i, m := range ms {
		b.Result(slotName(prefix, i), m)
	}
	return b
}

// Attr appends a native attribute and its builder argument.
func (b *OpBuilder) Attr(name string, kind ods.AttrKind, typeName string) *OpBuilder {
	b.op.Arguments = append(b.op.Arguments, ods.Argument{Attribute: true, Index: len(b.op.Attributes)})
	b.op.Attributes = append(b.op.Attributes, ods.AttributeSlot{Name: name, Kind: kind, TypeName: typeName})
	return b
}

// DerivedAttr appends a derived attribute; it has no builder argument.
func (b *OpBuilder) DerivedAttr(name, typeName string) *OpBuilder {
	b.op.Attributes = append(b.op.Attributes, ods.AttributeSlot{Name: name, TypeName: typeName, Derived: true})
	return b
}

// Region appends a region slot.
func (b *OpBuilder) Region(name string, variadic bool) *OpBuilder {
	b.op.Regions = append(b.op.Regions, ods.RegionSlot{Name: name, Variadic: variadic})
	return b
}

// Successor appends a successor slot.
func (b *OpBuilder) Successor(name string, variadic bool) *OpBuilder {
	b.op.Successors = append(b.op.Successors, ods.SuccessorSlot{Name: name, Variadic: variadic})
	return b
}

// Traits adds traits.
func (b *OpBuilder) Traits(traits ...ods.Trait) *OpBuilder {
	for _, t := range traits {
		b.op.Traits = b.op.Traits.With(t)
	}
	return b
}

// Build returns a copy of the assembled operation.
func (b *OpBuilder) Build() *ods.Operation {
	op := b.op
	op.Operands = append([]ods.Slot(nil), b.op.Operands...)
	op.Results = append([]ods.Slot(nil), b.op.Results...)
	op.Attributes = append([]ods.AttributeSlot(nil), b.op.Attributes...)
	op.Arguments = append([]ods.Argument(nil), b.op.Arguments...)
	op.Regions = append([]ods.RegionSlot(nil), b.op.Regions...)
	op.Successors = append([]ods.SuccessorSlot(nil), b.op.Successors...)
	return &op
}

func slotName(prefix string, i int) string {
	if prefix == "" {
		return ""
	}
	return prefix + strconv.Itoa(i)
}

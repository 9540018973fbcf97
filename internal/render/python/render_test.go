package python

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/odsgen/internal/binding"
	"github.com/roach88/odsgen/internal/ods"
	"github.com/roach88/odsgen/internal/testutil"
)

func render(t *testing.T, op *ods.Operation) string {
	t.Helper()
	r := New()
	b, err := binding.Synthesize(op, r.Resolver())
	require.NoError(t, err)
	out, err := r.RenderOp(b)
	require.NoError(t, err)
	return out
}

func TestIsReserved(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"operands", true},
		{"from", true},
		{"type", true},
		{"OPERATION_NAME", true},
		{"_ods_successors", true},
		{"value_ods", true},
		{"lhs", false},
		{"ods", false},
		{"Operands", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReserved(tt.name))
		})
	}
}

// Example 5: a slot named like a surface member gets a suffix everywhere.
func TestReservedSlotNameIsSuffixed(t *testing.T) {
	op := testutil.NewOp("test.r", "ROp").Operand("operands", ods.Single).Build()

	out := render(t, op)
	assert.Contains(t, out, "def __init__(self, operands_, *, loc=None, ip=None):")
	assert.Contains(t, out, "operands.append(_get_op_result_or_value(operands_))")
	assert.Contains(t, out, "  def operands_(self):\n    return self.operation.operands[0]\n")
}

func TestWriteHeader(t *testing.T) {
	r := New()

	var buf bytes.Buffer
	require.NoError(t, r.WriteHeader(&buf, "arith", ""))
	out := buf.String()
	assert.Contains(t, out, "from . import _arith_ops_ext as _ods_ext_module")
	assert.Contains(t, out, "@_ods_cext.register_dialect\nclass _Dialect(_ods_ir.Dialect):\n  DIALECT_NAMESPACE = \"arith\"\n")
	assert.NotContains(t, out, "_ops_gen import _Dialect")

	buf.Reset()
	require.NoError(t, r.WriteHeader(&buf, "transform", "loop_ext"))
	out = buf.String()
	assert.Contains(t, out, "from . import _loop_ext_ops_ext as _ods_ext_module")
	assert.Contains(t, out, "from ._transform_ops_gen import _Dialect")
	assert.NotContains(t, out, "register_dialect")
}

func TestWriteHeaderRequiresDialect(t *testing.T) {
	err := New().WriteHeader(&bytes.Buffer{}, "", "ext")
	assert.ErrorIs(t, err, ErrNoDialect)
}

func TestRenderOpGolden(t *testing.T) {
	op := testutil.NewOp("test.add", "AddOp").
		Operand("lhs", ods.Single).
		Operand("rhs", ods.Single).
		Attr("fastmath", ods.OptionalAttr, "FastMathAttr").
		Result("", ods.Single).
		Traits(ods.SameOperandsAndResultType).
		Build()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "add_op", []byte(render(t, op)))
}

func TestRenderCountInferredAccessors(t *testing.T) {
	op := testutil.NewOp("test.call", "CallOp").
		Operand("callee", ods.Single).
		Operand("args", ods.Variadic).
		Operand("token", ods.Single).
		Result("", ods.Single).
		Result("status", ods.Optional).
		Build()

	out := render(t, op)
	assert.Contains(t, out, "    return self.operation.operands[0]\n")
	assert.Contains(t, out, "    _ods_variadic_group_length = len(self.operation.operands) - 3 + 1\n"+
		"    return self.operation.operands[1:1 + _ods_variadic_group_length]\n")
	assert.Contains(t, out, "    return self.operation.operands[2 + _ods_variadic_group_length - 1]\n")
	assert.Contains(t, out, "    return None if len(self.operation.results) < 2 else self.operation.results[1]\n")
	assert.Contains(t, out, "def __init__(self, _gen_res_0, status, callee, args, token, *, loc=None, ip=None):")
	assert.Contains(t, out, "operands.extend(_get_op_results_or_values(args))")
	assert.Contains(t, out, "if status is not None: results.append(status)")
}

func TestRenderEqualSizeAccessors(t *testing.T) {
	op := testutil.NewOp("test.pair", "PairOp").
		Operand("x", ods.Variadic).
		Operand("y", ods.Variadic).
		Traits(ods.SameVariadicOperandSize).
		Build()

	out := render(t, op)
	assert.Contains(t, out, "  def y(self):\n"+
		"    start, pg = _ods_equally_sized_accessor(self.operation.operands, 0, 2, 0, 1)\n"+
		"    return self.operation.operands[start:start + pg]\n")
}

func TestRenderSegmentAccessors(t *testing.T) {
	op := testutil.NewOp("test.seg", "SegOp").
		Operand("a", ods.Single).
		Operand("b", ods.Optional).
		Operand("c", ods.Variadic).
		Traits(ods.AttrSizedOperandSegments).
		Build()

	out := render(t, op)
	assert.Contains(t, out, "\n  _ODS_OPERAND_SEGMENTS = [1,0,-1,]\n")
	assert.NotContains(t, out, "_ODS_RESULT_SEGMENTS")
	assert.Contains(t, out, "    operand_range = _ods_segmented_accessor(\n"+
		"         self.operation.operands,\n"+
		"         self.operation.attributes[\"operandSegmentSizes\"], 0)\n"+
		"    return operand_range[0]\n")
	assert.Contains(t, out, "    return operand_range[0] if len(operand_range) > 0 else None\n")
	assert.Contains(t, out, "self.operation.attributes[\"operandSegmentSizes\"], 2)\n    return operand_range\n")
	assert.Contains(t, out, "operands.append(_get_op_result_or_value(b) if b is not None else None)")
	assert.Contains(t, out, "operands.append(_get_op_results_or_values(c))")
}

func TestRenderAttributeProperties(t *testing.T) {
	op := testutil.NewOp("test.attrs", "AttrsOp").
		Attr("value", ods.Mandatory, "I32Attr").
		Attr("nsw", ods.Unit, "UnitAttr").
		Build()

	out := render(t, op)
	assert.Contains(t, out, "def __init__(self, value, *, nsw=None, loc=None, ip=None):")
	assert.Contains(t, out, "raise ValueError(\"'None' not allowed as value for mandatory attributes\")")
	assert.NotContains(t, out, "@value.deleter")
	assert.Contains(t, out, "    return \"nsw\" in self.operation.attributes\n")
	assert.Contains(t, out, "self.operation.attributes[\"nsw\"] = _ods_ir.UnitAttr.get()")
	assert.Contains(t, out, "@nsw.deleter")
	assert.Contains(t, out, "if bool(nsw): attributes[\"nsw\"] = _ods_ir.UnitAttr.get(_ods_context)")
}

func TestRenderRegionsAndSuccessors(t *testing.T) {
	op := testutil.NewOp("test.switch", "SwitchOp").
		Operand("flag", ods.Single).
		Successor("dest", false).
		Successor("cases_dest", true).
		Region("default", false).
		Region("Cases", true).
		Build()

	out := render(t, op)
	assert.Contains(t, out, "_ODS_REGIONS = (1, False)")
	assert.Contains(t, out, "def __init__(self, flag, dest, cases_dest, num_cases, *, loc=None, ip=None):")
	assert.Contains(t, out, "    _ods_successors = []\n"+
		"    _ods_successors.append(dest)\n"+
		"    _ods_successors.extend(cases_dest)\n"+
		"    regions = 1 + num_cases\n")
	assert.Contains(t, out, "  def default(self):\n    return self.regions[0]\n")
	assert.Contains(t, out, "  def Cases(self):\n    return self.regions[1:]\n")
}

func TestRenderInferredResultsOmitResultList(t *testing.T) {
	op := testutil.NewOp("test.inf", "InfOp").
		Operand("x", ods.Single).
		Result("r", ods.Single).
		Traits(ods.InferTypeInterface).
		Build()

	out := render(t, op)
	assert.Contains(t, out, "self.build_generic(attributes=attributes, operands=operands, successors=_ods_successors, regions=regions, loc=loc, ip=ip)")
}

func TestRenderFirstAttrDerivedResultType(t *testing.T) {
	op := testutil.NewOp("test.const", "ConstOp").
		Attr("value", ods.Mandatory, "TypedAttrInterface").
		Result("", ods.Single).
		Traits(ods.FirstAttrDerivedResultType).
		Build()

	out := render(t, op)
	assert.Contains(t, out, "    _ods_result_type_source_attr = attributes[\"value\"]\n"+
		"    _ods_derived_result_type = (\n"+
		"        _ods_ir.TypeAttr(_ods_result_type_source_attr).value\n")
	assert.Contains(t, out, "    results.extend([_ods_derived_result_type] * 1)\n")
}

func TestRenderSkipDefaultBuilders(t *testing.T) {
	op := testutil.NewOp("test.skip", "SkipOp").Operand("x", ods.Single).Traits(ods.SkipDefaultBuilders).Build()

	out := render(t, op)
	assert.NotContains(t, out, "__init__")
	assert.Contains(t, out, "def x(self):")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteOpReportsWriteError(t *testing.T) {
	r := New()
	b, err := binding.Synthesize(testutil.NewOp("test.x", "XOp").Build(), r.Resolver())
	require.NoError(t, err)

	err = r.WriteOp(failingWriter{}, b)
	assert.EqualError(t, err, "disk full")
}

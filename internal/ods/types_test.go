package ods

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiplicityIsVariableLength(t *testing.T) {
	assert.False(t, Single.IsVariableLength())
	assert.True(t, Optional.IsVariableLength())
	assert.True(t, Variadic.IsVariableLength())
}

func TestParseMultiplicity(t *testing.T) {
	tests := []struct {
		in   string
		want Multiplicity
	}{
		{"", Single},
		{"single", Single},
		{"optional", Optional},
		{"variadic", Variadic},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMultiplicity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMultiplicity("many")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "many")
}

func TestParseAttrKind(t *testing.T) {
	k, err := ParseAttrKind("default_valued")
	require.NoError(t, err)
	assert.Equal(t, DefaultValued, k)

	k, err = ParseAttrKind("")
	require.NoError(t, err)
	assert.Equal(t, Mandatory, k)
	assert.False(t, k.MayBeAbsent())

	_, err = ParseAttrKind("sometimes")
	require.Error(t, err)
}

func TestKindSegmentAttrName(t *testing.T) {
	assert.Equal(t, "operandSegmentSizes", Operand.SegmentAttrName())
	assert.Equal(t, "resultSegmentSizes", Result.SegmentAttrName())
}

func TestOperationJSONRoundTripPreservesShape(t *testing.T) {
	op := Operation{
		Name:      "test.op",
		ClassName: "TestOp",
		Operands:  []Slot{{Name: "a"}, {Name: "b", Multiplicity: Variadic}},
		Results:   []Slot{{Multiplicity: Optional}},
		Attributes: []AttributeSlot{
			{Name: "flag", Kind: Unit, TypeName: "UnitAttr"},
		},
		Traits: NewTraitSet(SameVariadicOperandSize, InferTypeInterface),
	}

	data, err := json.Marshal(op)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"multiplicity":"variadic"`)
	assert.Contains(t, string(data), `"traits":["SameVariadicOperandSize","InferTypeInterface"]`)

	var back Operation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, op, back)
}

func TestOperationArgsDefaultOrder(t *testing.T) {
	op := &Operation{
		Operands: []Slot{{Name: "a"}, {Name: "b"}},
		Attributes: []AttributeSlot{
			{Name: "x"},
			{Name: "width", Derived: true},
			{Name: "y"},
		},
	}

	assert.Equal(t, []Argument{
		{Index: 0},
		{Index: 1},
		{Attribute: true, Index: 0},
		{Attribute: true, Index: 2},
	}, op.Args())
}

func TestOperationArgsExplicitOrder(t *testing.T) {
	explicit := []Argument{{Attribute: true, Index: 0}, {Index: 0}}
	op := &Operation{
		Operands:   []Slot{{Name: "a"}},
		Attributes: []AttributeSlot{{Name: "x"}},
		Arguments:  explicit,
	}
	assert.Equal(t, explicit, op.Args())
}

func TestOperationCounts(t *testing.T) {
	op := &Operation{
		Operands: []Slot{{Multiplicity: Optional}, {}, {Multiplicity: Variadic}},
		Results:  []Slot{{}},
		Regions:  []RegionSlot{{Name: "a"}, {Name: "rest", Variadic: true}},
	}
	assert.Equal(t, 2, op.NumVariableLength(Operand))
	assert.Equal(t, 0, op.NumVariableLength(Result))
	assert.Equal(t, 1, op.NumVariadicRegions())
	assert.False(t, op.HasNoVariadicRegions())
}

package ods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{"b": 1, "a": "x", "c": []any{true, "<"}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1,"c":[true,"<"]}`, string(data))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute normalizes to U+00E9.
	data, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(data))
}

func TestMarshalCanonicalRejectsFloatsAndNull(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"x": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats")

	_, err = MarshalCanonical([]any{nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")
}

func TestFingerprintStableAndSensitive(t *testing.T) {
	op := &Operation{
		Name:     "test.add",
		Operands: []Slot{{Name: "lhs"}, {Name: "rhs"}},
		Results:  []Slot{{Name: "sum"}},
	}
	fp1 := MustFingerprint(op)
	fp2 := MustFingerprint(op)
	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64)

	changed := *op
	changed.Operands = []Slot{{Name: "lhs"}, {Name: "rhs", Multiplicity: Variadic}}
	assert.NotEqual(t, fp1, MustFingerprint(&changed))

	traited := *op
	traited.Traits = NewTraitSet(SameOperandsAndResultType)
	assert.NotEqual(t, fp1, MustFingerprint(&traited))
}

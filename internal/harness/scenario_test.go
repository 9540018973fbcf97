package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/equal_size_pair.yaml")
	require.NoError(t, err)

	assert.Equal(t, "equal_size_pair", scenario.Name)
	assert.Equal(t, "test.pair", scenario.Operation.Name)
	assert.Equal(t, "PairOp", scenario.Operation.ClassName)
	assert.Equal(t, []string{"SameVariadicOperandSize", "SkipDefaultBuilders"}, scenario.Operation.Traits)
	require.Len(t, scenario.Operation.Arguments, 2)
	require.NotNil(t, scenario.Operation.Arguments[0].Operand)
	assert.Equal(t, "x", *scenario.Operation.Arguments[0].Operand)
	assert.Equal(t, "variadic", scenario.Operation.Arguments[0].Multiplicity)

	require.Len(t, scenario.Probes, 3)
	assert.Equal(t, "operand", scenario.Probes[0].Kind)
	assert.Equal(t, 6, scenario.Probes[0].Count)
	assert.Equal(t, Expectation{Start: 3, End: 6}, scenario.Probes[0].Expect["y"])
	assert.True(t, scenario.Probes[2].Fails)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: misspelled field
operation:
  name: test.op
probe:
  - kind: operand
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_UnknownOperationField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: misspelled operation field
operation:
  name: test.op
  operands: []
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\noperation: {name: test.op}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\noperation: {name: test.op}\n",
			wantErr: "description is required",
		},
		{
			name:    "missing operation name",
			content: "name: n\ndescription: d\noperation: {class: Op}\n",
			wantErr: "operation.name is required",
		},
		{
			name: "probes with expect_error",
			content: `name: n
description: d
operation: {name: test.op}
expect_error: UNSUPPORTED_SLOT_SHAPE
probes:
  - {kind: operand, count: 1, expect: {a: {start: 0, end: 1}}}
`,
			wantErr: "probes cannot be combined with expect_error",
		},
		{
			name: "bad probe kind",
			content: `name: n
description: d
operation: {name: test.op}
probes:
  - {kind: region, count: 1, expect: {a: {start: 0, end: 1}}}
`,
			wantErr: "probes[0]: unknown slot kind",
		},
		{
			name: "negative count",
			content: `name: n
description: d
operation: {name: test.op}
probes:
  - {kind: operand, count: -1, expect: {a: {start: 0, end: 1}}}
`,
			wantErr: "count must be non-negative",
		},
		{
			name: "empty expect",
			content: `name: n
description: d
operation: {name: test.op}
probes:
  - {kind: operand, count: 1}
`,
			wantErr: "expect is required",
		},
		{
			name: "inverted range",
			content: `name: n
description: d
operation: {name: test.op}
probes:
  - {kind: result, count: 3, expect: {a: {start: 2, end: 1}}}
`,
			wantErr: "probes[0].expect.a: invalid range",
		},
		{
			name: "non-empty absent",
			content: `name: n
description: d
operation: {name: test.op}
probes:
  - {kind: operand, count: 2, expect: {a: {start: 1, end: 2, absent: true}}}
`,
			wantErr: "absent selection must be empty",
		},
		{
			name: "unwrapped range",
			content: `name: n
description: d
operation: {name: test.op}
probes:
  - {kind: operand, count: 3, expect: {a: {start: 0, end: 2, unwrap: true}}}
`,
			wantErr: "unwrapped selection must hold exactly one element",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "count_inferred.yaml"),
		filepath.Join("testdata", "scenarios", "equal_size_pair.yaml"),
		filepath.Join("testdata", "scenarios", "optional_operand.yaml"),
		filepath.Join("testdata", "scenarios", "segments.yaml"),
		filepath.Join("testdata", "scenarios", "unsupported_shape.yaml"),
	}, files)

	filtered, err := FindScenarios("testdata/scenarios", "*_pair")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata", "scenarios", "equal_size_pair.yaml")}, filtered)

	_, err = FindScenarios("testdata/scenarios", "[")
	require.Error(t, err)
}

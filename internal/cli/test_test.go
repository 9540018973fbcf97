package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenariosDir = filepath.Join("..", "harness", "testdata", "scenarios")

const pairScenario = `
name: pair
description: two equal-size variadic operands
operation:
  name: test.pair
  class: PairOp
  traits: [SameVariadicOperandSize]
  arguments:
    - {operand: x, multiplicity: variadic}
    - {operand: y, multiplicity: variadic}
probes:
  - kind: operand
    count: 4
    expect:
      x: {start: 0, end: 2}
      y: {start: 2, end: 4}
`

func executeTest(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommand_HarnessScenarios(t *testing.T) {
	output, err := executeTest(t, "text", scenariosDir)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ equal_size_pair")
	assert.Contains(t, output, "✓ unsupported_shape")
	assert.Contains(t, output, "5 passed, 0 failed, 5 total")
}

func TestTestCommand_JSON(t *testing.T) {
	output, err := executeTest(t, "json", scenariosDir, "--filter", "seg*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, "segments", resp.Data.Scenarios[0].Name)
}

func TestTestCommand_NotFound(t *testing.T) {
	_, err := executeTest(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_NoScenarios(t *testing.T) {
	output, err := executeTest(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, output, "No scenarios found.")
}

func TestTestCommand_GoldenLifecycle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pair.yaml"), []byte(pairScenario), 0644))
	goldenPath := filepath.Join(dir, "golden", "pair.golden")

	_, err := executeTest(t, "text", dir, "--update")
	require.NoError(t, err)
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), "class PairOp(_ods_ir.OpView):")

	output, err := executeTest(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ pair")

	require.NoError(t, os.WriteFile(goldenPath, []byte("stale\n"), 0644))
	output, err = executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "✗ pair")
	assert.Contains(t, output, "does not match golden file")
}

func TestTestCommand_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	bad := `
name: wrong
description: expects the wrong split
operation:
  name: test.pair
  class: PairOp
  traits: [SameVariadicOperandSize]
  arguments:
    - {operand: x, multiplicity: variadic}
    - {operand: y, multiplicity: variadic}
probes:
  - kind: operand
    count: 4
    expect:
      x: {start: 0, end: 1}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(bad), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("name: [\n"), 0644))

	output, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, output, "✗ wrong")
	assert.Contains(t, output, "probes[0].x: expected [0, 1)")
	assert.Contains(t, output, "✗ broken.yml")
	assert.Contains(t, output, "0 passed, 2 failed, 2 total")
}

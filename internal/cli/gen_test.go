package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedSpec = `
package test

operation: GoodOp: {
	name: "test.good"
	arguments: [{operand: "input"}]
	results: [{name: "output"}]
}

operation: BadOp: {
	name: "test.bad"
	arguments: [
		{operand: "xs", multiplicity: "variadic"},
		{operand: "ys", multiplicity: "variadic"},
	]
}

operation: OtherOp: {
	name: "other.op"
}
`

// genResponse mirrors CLIResponse with a typed payload.
type genResponse struct {
	Status string    `json:"status"`
	Data   GenResult `json:"data"`
	RunID  string    `json:"run_id"`
}

func executeGen(t *testing.T, format string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewGenCommand(&RootOptions{Format: format})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGen_Stdout(t *testing.T) {
	stdout, stderr, err := executeGen(t, "text", specsDir, "--dialect", "test")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "\n# Autogenerated by odsgen; don't manually edit.\n"))
	assert.Contains(t, stdout, `DIALECT_NAMESPACE = "test"`)

	add := strings.Index(stdout, "class AddOp(_ods_ir.OpView):")
	call := strings.Index(stdout, "class CallOp(_ods_ir.OpView):")
	pair := strings.Index(stdout, "class PairOp(_ods_ir.OpView):")
	require.True(t, add > 0 && call > 0 && pair > 0, "all classes rendered")
	assert.True(t, add < call && call < pair, "classes in definition order")

	// Summary goes to stderr so stdout stays valid Python.
	assert.Contains(t, stderr, "✓ Generated 3 operation(s) for dialect test → stdout")
}

func TestGen_OutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "_test_ops_gen.py")
	stdout, _, err := executeGen(t, "text", specsDir, "--dialect", "test", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "class AddOp(_ods_ir.OpView):")
	assert.Contains(t, stdout, "→ "+outPath)
}

func TestGen_Extension(t *testing.T) {
	stdout, _, err := executeGen(t, "text", specsDir, "--dialect", "test", "--dialect-extension", "test_ext")
	require.NoError(t, err)

	assert.Contains(t, stdout, "from . import _test_ext_ops_ext as _ods_ext_module")
	assert.Contains(t, stdout, "from ._test_ops_gen import _Dialect")
	assert.NotContains(t, stdout, "DIALECT_NAMESPACE")
}

func TestGen_SkipsUnbindableOperations(t *testing.T) {
	dir := writeSpec(t, mixedSpec)

	stdout, stderr, err := executeGen(t, "text", dir, "--dialect", "test")
	require.NoError(t, err)

	assert.Contains(t, stdout, "class GoodOp(_ods_ir.OpView):")
	assert.NotContains(t, stdout, "class BadOp")
	assert.NotContains(t, stdout, "class OtherOp")
	assert.Contains(t, stderr, "✓ Generated 1 operation(s) for dialect test")
	assert.Contains(t, stderr, "✗ Skipped test.bad [UNSUPPORTED_SLOT_SHAPE]")
}

func TestGen_FailFast(t *testing.T) {
	dir := writeSpec(t, mixedSpec)

	stdout, stderr, err := executeGen(t, "text", dir, "--dialect", "test", "--fail-fast", "--workers", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Empty(t, stdout, "aborted run writes nothing")
	assert.Contains(t, stderr, "UNSUPPORTED_SLOT_SHAPE")
}

func TestGen_MissingDialectFlag(t *testing.T) {
	_, _, err := executeGen(t, "text", specsDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "dialect" not set`)
}

func TestGen_SpecsNotFound(t *testing.T) {
	_, stderr, err := executeGen(t, "text", "/nonexistent/specs", "--dialect", "test")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, stderr, "not found")
}

func TestGen_UnwritableOutput(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "missing", "out.py")
	_, _, err := executeGen(t, "text", specsDir, "--dialect", "test", "-o", outPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeWriteFailed)
}

func TestGen_LedgerTracksChanges(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "odsgen.db")
	outPath := filepath.Join(tmp, "out.py")

	run := func() genResponse {
		stdout, _, err := executeGen(t, "json", specsDir, "--dialect", "test", "-o", outPath, "--db", dbPath)
		require.NoError(t, err)
		var resp genResponse
		require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
		return resp
	}

	first := run()
	assert.Equal(t, "ok", first.Status)
	assert.Equal(t, first.Data.RunID, first.RunID)
	assert.Equal(t, int64(1), first.Data.RunSeq)
	assert.Equal(t, 3, first.Data.Generated)
	assert.Equal(t, []string{"test.add", "test.call", "test.pair"}, first.Data.Changed)
	assert.Zero(t, first.Data.Unchanged)

	second := run()
	assert.Equal(t, int64(2), second.Data.RunSeq)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Empty(t, second.Data.Changed)
	assert.Equal(t, 3, second.Data.Unchanged)
}

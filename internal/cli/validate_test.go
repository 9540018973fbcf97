package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/odsgen/internal/compiler"
)

// validateResponse mirrors CLIResponse with a typed payload.
type validateResponse struct {
	Status string           `json:"status"`
	Data   ValidationResult `json:"data"`
	Error  *CLIError        `json:"error"`
}

func executeValidate(t *testing.T, format, dir string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateValidSpecs(t *testing.T) {
	output, err := executeValidate(t, "text", specsDir)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ All specs valid (3 operation(s))")
}

func TestValidateValidSpecsJSON(t *testing.T) {
	output, err := executeValidate(t, "json", specsDir)
	require.NoError(t, err)

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Operations)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	output, err := executeValidate(t, "text", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005") // ErrCodeNotFound
	assert.Contains(t, output, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	output, err := executeValidate(t, "text", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E003")
	assert.Contains(t, output, "no CUE files found")
}

func TestValidateReportsAllErrors(t *testing.T) {
	dir := writeSpec(t, `
package test

operation: NoName: {
	arguments: []
}

operation: BadOp: {
	name: "test.bad"
	traits: ["NoSuchTrait"]
	arguments: [{operand: "x", multiplicity: "many"}]
}

operation: AmbiguousOp: {
	name: "test.ambiguous"
	arguments: [
		{operand: "xs", multiplicity: "variadic"},
		{operand: "ys", multiplicity: "variadic"},
	]
}
`)

	output, err := executeValidate(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed")

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.NotNil(t, resp.Error)

	var codes []string
	for _, e := range resp.Data.Errors {
		codes = append(codes, e.Code)
	}
	// Decoded operations first, in order, then load errors for the rest.
	assert.Equal(t, []string{
		compiler.ErrUnknownTrait,
		compiler.ErrBadMultiplicity,
		compiler.ErrUnsupportedShape,
		compiler.ErrOperationName,
	}, codes)
}

func TestValidateInvalidSpecText(t *testing.T) {
	dir := writeSpec(t, `
package test

operation: DupOp: {
	name: "test.dup"
	arguments: [{operand: "x"}, {operand: "x"}]
}
`)

	output, err := executeValidate(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, output, "✗ Validation failed")
	assert.Contains(t, output, compiler.ErrDuplicateSlotName)
}

func TestValidateSpecsDir(t *testing.T) {
	errs, err := ValidateSpecsDir(specsDir)
	require.NoError(t, err)
	assert.Empty(t, errs)

	_, err = ValidateSpecsDir("/nonexistent/directory/path")
	require.Error(t, err)
}

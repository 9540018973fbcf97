package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/odsgen/internal/store"
)

func executeHistory(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// seedLedger runs gen twice against the mixed spec and returns the db path.
func seedLedger(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "odsgen.db")
	dir := writeSpec(t, mixedSpec)
	for i := 0; i < 2; i++ {
		_, _, err := executeGen(t, "text", dir, "--dialect", "test", "-o", filepath.Join(tmp, "out.py"), "--db", dbPath)
		require.NoError(t, err)
	}
	return dbPath
}

func TestHistory_ListRuns(t *testing.T) {
	dbPath := seedLedger(t)

	output, err := executeHistory(t, "json", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Data []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, int64(1), resp.Data[0].Seq)
	assert.Equal(t, int64(2), resp.Data[1].Seq)
	assert.Equal(t, 2, resp.Data[0].OpCount)
	assert.Equal(t, 1, resp.Data[0].FailureCount)

	text, err := executeHistory(t, "text", "--db", dbPath, "--dialect", "other")
	require.NoError(t, err)
	assert.Contains(t, text, "No runs recorded.")
}

func TestHistory_RunAndOperation(t *testing.T) {
	dbPath := seedLedger(t)

	output, err := executeHistory(t, "json", "--db", dbPath)
	require.NoError(t, err)
	var runs struct {
		Data []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &runs))
	require.NotEmpty(t, runs.Data)

	text, err := executeHistory(t, "text", "--db", dbPath, "--run", runs.Data[0].ID)
	require.NoError(t, err)
	assert.Contains(t, text, "test.good")
	assert.Contains(t, text, "[UNSUPPORTED_SLOT_SHAPE]")

	output, err = executeHistory(t, "json", "--db", dbPath, "--op", "test.good")
	require.NoError(t, err)
	var history struct {
		Data []store.OperationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &history))
	require.Len(t, history.Data, 2)
	assert.Equal(t, history.Data[0].Fingerprint, history.Data[1].Fingerprint)
}

func TestHistory_UnknownRun(t *testing.T) {
	dbPath := seedLedger(t)

	_, err := executeHistory(t, "text", "--db", dbPath, "--run", "nonexistent")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHistory_MissingDatabase(t *testing.T) {
	output, err := executeHistory(t, "text", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "database not found")
}

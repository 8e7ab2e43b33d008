package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blastseq/internal/analysis"
)

func TestValidateValidNetwork(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, filepath.Join("testdata", "chain.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "\u2713 Network valid")
}

func TestValidateValidNetworkJSON(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	out, err := runCommand(t, cmd, filepath.Join("testdata", "chain.json"))
	require.NoError(t, err)

	var v analysis.Validation
	env := decodeData(t, out, &v)
	assert.Equal(t, "ok", env.Status)
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
}

func TestValidateUnreachable(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, filepath.Join("testdata", "unreachable.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "E201")
	assert.Contains(t, out, "Error [E201]")
}

func TestValidateUnreachableJSON(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	out, err := runCommand(t, cmd, filepath.Join("testdata", "unreachable.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	env := decodeData(t, out, nil)
	assert.Equal(t, "error", env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeInvalidNetwork, env.Error.Code)

	details, ok := env.Error.Details.(map[string]any)
	require.True(t, ok, "details should be the validation object")
	errs, ok := details["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	assert.Equal(t, string(analysis.FindingUnreachable), first["type"])
	assert.ElementsMatch(t, []any{"C", "D"}, first["hole_ids"])
}

func TestValidateDangling(t *testing.T) {
	path := filepath.Join("testdata", "dangling.yaml")

	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	_, err := runCommand(t, cmd, path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeDangling)

	cmd = NewValidateCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, path, "--drop-dangling")
	require.NoError(t, err)
	assert.Contains(t, out, "\u2713 Network valid")
}

func TestValidateNonExistentFile(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, "/nonexistent/network.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, out, "not found")
}

func TestValidateRequiresArgument(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	_, err := runCommand(t, cmd)
	require.Error(t, err)
}

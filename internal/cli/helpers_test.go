package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// runCommand executes cmd with args and returns its stdout and error.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// envelope mirrors CLIResponse with the payload left undecoded.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// decodeData parses a JSON response envelope and decodes its data into v.
func decodeData(t *testing.T, output string, v any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(output), &env), "output: %s", output)
	if v != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, v))
	}
	return env
}

package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blastseq/internal/report"
)

func TestReportCSV(t *testing.T) {
	cmd := NewReportCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, chainPath, "--as", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,from,to,kind,delay_ms,sequence,start_ms,arrival_ms,wave", lines[0])
	assert.Equal(t, "ab,A,B,detonating_cord,100,1,0,100,1", lines[1])
	assert.Equal(t, "bc,B,C,detonating_cord,200,2,600,800,2", lines[2])
}

func TestReportJSONIsBare(t *testing.T) {
	// --format json selects the JSON report without the response envelope.
	cmd := NewReportCommand(&RootOptions{Format: "json"})
	out, err := runCommand(t, cmd, chainPath, "--project", "Bench 4")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "Bench 4", rep.Project)
	assert.Equal(t, "flagged", rep.RootRule)
	assert.Len(t, rep.Holes, 3)
	assert.Equal(t, int64(1300), rep.Metrics.TotalBlastDurationMs)
	assert.NotContains(t, out, `"status"`)
}

func TestReportText(t *testing.T) {
	cmd := NewReportCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, chainPath, "--project", "Bench 4")
	require.NoError(t, err)
	assert.Contains(t, out, "Project: Bench 4")
	assert.Contains(t, out, "Total Time (ms): 1300")
	assert.Contains(t, out, "Wave 2 at 600ms: bc")
}

func TestReportUnknownFormat(t *testing.T) {
	cmd := NewReportCommand(&RootOptions{Format: "text"})
	_, err := runCommand(t, cmd, chainPath, "--as", "pdf")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

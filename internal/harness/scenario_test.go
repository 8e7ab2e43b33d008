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
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/chain.yaml")
	require.NoError(t, err)

	assert.Equal(t, "chain", s.Name)
	require.Len(t, s.Network.Holes, 3)
	require.Len(t, s.Network.Connectors, 2)
	assert.True(t, s.Network.Connectors[0].IsRoot)
	assert.Equal(t, int64(200), s.Network.Connectors[1].DelayMs)

	require.NotNil(t, s.Expect)
	require.NotNil(t, s.Expect.Activations["C"])
	assert.Equal(t, int64(1300), *s.Expect.Activations["C"])
	assert.NotNil(t, s.Expect.Diagnostics)
	assert.Empty(t, s.Expect.Diagnostics)
	assert.Len(t, s.Assertions, 6)
}

func TestLoadScenario_NullActivation(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/unreachable.yaml")
	require.NoError(t, err)

	v, ok := s.Expect.Activations["C"]
	assert.True(t, ok)
	assert.Nil(t, v)

	w, ok := s.Expect.Windows["cd"]
	assert.True(t, ok)
	assert.Nil(t, w)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "misspelled section"
network: { holes: [], connectors: [] }
assertion:
  - type: event_count
    event: hole_detonate
    count: 0
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    `description: "d"` + "\nexpect: { diagnostics: [] }",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nexpect: { diagnostics: [] }",
			wantErr: "description is required",
		},
		{
			name:    "nothing to check",
			yaml:    "name: n\ndescription: d",
			wantErr: "expect or assertions is required",
		},
		{
			name:    "expect_error with expect",
			yaml:    "name: n\ndescription: d\nexpect_error: INVALID_GRAPH\nexpect: { diagnostics: [] }",
			wantErr: "expect_error cannot be combined",
		},
		{
			name:    "unknown root rule",
			yaml:    "name: n\ndescription: d\nexpect: { root_rule: random }",
			wantErr: "unknown rule",
		},
		{
			name:    "unknown assertion type",
			yaml:    "name: n\ndescription: d\nassertions: [{ type: trace_count }]",
			wantErr: `unknown assertion type "trace_count"`,
		},
		{
			name:    "unknown event type",
			yaml:    "name: n\ndescription: d\nassertions: [{ type: event_count, event: boom }]",
			wantErr: `unknown event type "boom"`,
		},
		{
			name:    "event_contains without subject",
			yaml:    "name: n\ndescription: d\nassertions: [{ type: event_contains, event: hole_detonate }]",
			wantErr: "subject is required",
		},
		{
			name:    "event_order without subjects",
			yaml:    "name: n\ndescription: d\nassertions: [{ type: event_order }]",
			wantErr: "subjects list is required",
		},
		{
			name:    "state_at without time",
			yaml:    "name: n\ndescription: d\nassertions: [{ type: state_at, hole: A, state: READY }]",
			wantErr: "at_ms is required",
		},
		{
			name:    "state_at with both targets",
			yaml:    "name: n\ndescription: d\nassertions: [{ type: state_at, at_ms: 1, hole: A, connector: ab, state: READY }]",
			wantErr: "exactly one of hole or connector",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

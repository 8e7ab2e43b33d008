package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNetworkFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireLoadError(t *testing.T, err error, code string) *LoadError {
	t.Helper()
	require.Error(t, err)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
	assert.Equal(t, code, loadErr.Code)
	return loadErr
}

func TestLoadNetwork_AllFormatsAgree(t *testing.T) {
	yamlRes, err := LoadNetwork(filepath.Join("testdata", "chain.yaml"), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "yaml", yamlRes.Source)
	assert.Equal(t, 3, yamlRes.Network.HoleCount())
	assert.Equal(t, 2, yamlRes.Network.ConnectorCount())

	for _, name := range []string{"chain.json", "chain.cue"} {
		t.Run(name, func(t *testing.T) {
			res, err := LoadNetwork(filepath.Join("testdata", name), LoadOptions{})
			require.NoError(t, err)
			assert.Equal(t, yamlRes.Definition, res.Definition)
			assert.Equal(t, yamlRes.Network.Fingerprint(), res.Network.Fingerprint())
		})
	}
}

func TestLoadNetwork_Source(t *testing.T) {
	res, err := LoadNetwork(filepath.Join("testdata", "chain.cue"), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "cue", res.Source)

	res, err = LoadNetwork(filepath.Join("testdata", "chain.json"), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "json", res.Source)
}

func TestLoadNetwork_YMLExtension(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "chain.yaml"))
	require.NoError(t, err)
	path := writeNetworkFile(t, "chain.yml", string(data))

	res, err := LoadNetwork(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "yaml", res.Source)
}

func TestLoadNetwork_UnknownFieldsRejected(t *testing.T) {
	for _, name := range []string{"typo.yaml", "typo.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join("testdata", name)
			_, err := LoadNetwork(path, LoadOptions{})
			loadErr := requireLoadError(t, err, ErrCodeDecodeFailed)
			assert.Equal(t, path, loadErr.Path)
		})
	}
}

func TestLoadNetwork_UnsupportedExtension(t *testing.T) {
	_, err := LoadNetwork(filepath.Join("testdata", "chain.txt"), LoadOptions{})
	loadErr := requireLoadError(t, err, ErrCodeUnsupported)
	assert.Contains(t, loadErr.Message, `".txt"`)
}

func TestLoadNetwork_NotFound(t *testing.T) {
	_, err := LoadNetwork(filepath.Join("testdata", "missing.yaml"), LoadOptions{})
	loadErr := requireLoadError(t, err, ErrCodeNotFound)
	assert.ErrorIs(t, loadErr, os.ErrNotExist)
	assert.Contains(t, loadErr.Error(), "missing.yaml: E005")
}

func TestLoadNetwork_Dangling(t *testing.T) {
	path := filepath.Join("testdata", "dangling.yaml")

	_, err := LoadNetwork(path, LoadOptions{})
	requireLoadError(t, err, ErrCodeDangling)

	res, err := LoadNetwork(path, LoadOptions{DropDangling: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"az"}, res.Dropped)
	assert.Equal(t, 2, res.Network.HoleCount())
	assert.Equal(t, 1, res.Network.ConnectorCount())
}

func TestLoadNetwork_DuplicateID(t *testing.T) {
	path := writeNetworkFile(t, "dup.yaml", `
holes:
  - { id: A }
  - { id: A }
connectors: []
`)
	_, err := LoadNetwork(path, LoadOptions{})
	requireLoadError(t, err, ErrCodeDuplicateID)
}

func TestLoadNetwork_InvalidRecord(t *testing.T) {
	path := writeNetworkFile(t, "neg.json", `{
  "holes": [{"id": "A"}, {"id": "B"}],
  "connectors": [{"id": "ab", "source_hole_id": "A", "target_hole_id": "B", "delay_ms": -5}]
}`)
	_, err := LoadNetwork(path, LoadOptions{})
	requireLoadError(t, err, ErrCodeInvalidRecord)
}

func TestLoadNetwork_CUEConstraintViolation(t *testing.T) {
	path := writeNetworkFile(t, "bad.cue", `
#Connector: {
	id:             string
	source_hole_id: string
	target_hole_id: string
	delay_ms:       int & >=0
}

holes: [{id: "A"}, {id: "B"}]
connectors: [...#Connector] & [
	{id: "ab", source_hole_id: "A", target_hole_id: "B", delay_ms: -1},
]
`)
	_, err := LoadNetwork(path, LoadOptions{})
	loadErr := requireLoadError(t, err, ErrCodeCUEFailed)
	assert.Equal(t, path, loadErr.Path)
}

func TestLoadNetwork_CUEIncomplete(t *testing.T) {
	path := writeNetworkFile(t, "open.cue", `
holes: [{id: string}]
connectors: []
`)
	_, err := LoadNetwork(path, LoadOptions{})
	requireLoadError(t, err, ErrCodeCUEFailed)
}

func TestLoadError_Format(t *testing.T) {
	e := &LoadError{Code: ErrCodeDecodeFailed, Message: "parsing YAML: bad"}
	assert.Equal(t, "E004: parsing YAML: bad", e.Error())

	e.Path = "net.yaml"
	assert.Equal(t, "net.yaml: E004: parsing YAML: bad", e.Error())
}

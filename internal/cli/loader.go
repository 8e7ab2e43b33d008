package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/blastseq/internal/network"
)

// LoadOptions controls how a network file is turned into a Network.
type LoadOptions struct {
	// DropDangling removes connectors whose endpoints are not supplied holes
	// instead of failing the build.
	DropDangling bool
}

// LoadResult contains a loaded network and what happened while loading it.
type LoadResult struct {
	Network    *network.Network
	Definition network.Definition
	Dropped    []string // connector ids removed by DropDangling
	Source     string   // "yaml" | "json" | "cue"
}

// LoadError represents an error that occurred while loading a network file.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadNetwork reads a network definition from a .yaml, .yml, .json or .cue
// file and builds it. Unknown fields are rejected in every format.
//
// A CUE file may hold the definition at top level or under a "network"
// field, so that it can sit next to other configuration.
func LoadNetwork(path string, opts LoadOptions) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "network file not found", Path: path, Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading network file: %v", err), Path: path, Err: err}
	}

	var (
		def    network.Definition
		source string
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		source = "yaml"
		err = decodeYAML(data, &def)
	case ".json":
		source = "json"
		err = decodeJSON(data, &def)
	case ".cue":
		source = "cue"
		err = decodeCUE(path, data, &def)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported file extension %q (want .yaml, .yml, .json or .cue)", ext), Path: path}
	}
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}

	result := &LoadResult{Definition: def, Source: source}
	if opts.DropDangling {
		result.Definition.Connectors, result.Dropped = network.DropDangling(def.Holes, def.Connectors)
	}

	n, err := result.Definition.Build()
	if err != nil {
		return nil, &LoadError{Code: graphErrorCode(err), Message: err.Error(), Path: path, Err: err}
	}
	result.Network = n
	return result, nil
}

func decodeYAML(data []byte, def *network.Definition) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(def); err != nil {
		return &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("parsing YAML: %v", err), Err: err}
	}
	return nil
}

func decodeJSON(data []byte, def *network.Definition) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(def); err != nil {
		return &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("parsing JSON: %v", err), Err: err}
	}
	return nil
}

func decodeCUE(path string, data []byte, def *network.Definition) error {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return &LoadError{Code: ErrCodeCUEFailed, Message: fmt.Sprintf("compiling CUE: %v", err), Err: err}
	}

	if nested := value.LookupPath(cue.ParsePath("network")); nested.Exists() {
		value = nested
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeCUEFailed, Message: fmt.Sprintf("validating CUE: %v", err), Err: err}
	}
	if err := value.Decode(def); err != nil {
		return &LoadError{Code: ErrCodeCUEFailed, Message: fmt.Sprintf("decoding CUE: %v", err), Err: err}
	}
	return nil
}

// graphErrorCode maps a network build error to its CLI code.
func graphErrorCode(err error) string {
	var ige *network.InvalidGraphError
	if !errors.As(err, &ige) {
		return ErrCodeInvalidGraph
	}
	switch ige.Code {
	case network.ErrCodeDanglingReference:
		return ErrCodeDangling
	case network.ErrCodeDuplicateID:
		return ErrCodeDuplicateID
	case network.ErrCodeInvalidRecord:
		return ErrCodeInvalidRecord
	default:
		return ErrCodeInvalidGraph
	}
}

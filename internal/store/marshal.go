package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/blastseq/internal/metrics"
	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
)

// marshalJSON encodes v with HTML escaping disabled and without the
// trailing newline json.Encoder adds.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func marshalNetwork(d network.Definition) (string, error) {
	s, err := marshalJSON(d)
	if err != nil {
		return "", fmt.Errorf("marshal network: %w", err)
	}
	return s, nil
}

func unmarshalNetwork(data string) (network.Definition, error) {
	var d network.Definition
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return d, fmt.Errorf("unmarshal network: %w", err)
	}
	return d, nil
}

func marshalMetrics(m metrics.Metrics) (string, error) {
	s, err := marshalJSON(m)
	if err != nil {
		return "", fmt.Errorf("marshal metrics: %w", err)
	}
	return s, nil
}

func unmarshalMetrics(data string) (metrics.Metrics, error) {
	var m metrics.Metrics
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return m, fmt.Errorf("unmarshal metrics: %w", err)
	}
	return m, nil
}

func marshalDiagnostics(ds []schedule.Diagnostic) (string, error) {
	if ds == nil {
		ds = []schedule.Diagnostic{}
	}
	s, err := marshalJSON(ds)
	if err != nil {
		return "", fmt.Errorf("marshal diagnostics: %w", err)
	}
	return s, nil
}

func unmarshalDiagnostics(data string) ([]schedule.Diagnostic, error) {
	ds := []schedule.Diagnostic{}
	if err := json.Unmarshal([]byte(data), &ds); err != nil {
		return nil, fmt.Errorf("unmarshal diagnostics: %w", err)
	}
	return ds, nil
}

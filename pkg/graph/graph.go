package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Flowchart Serialization API
// =============================================================================

// MarshalFlowchart converts a flowchart to indented JSON bytes.
func MarshalFlowchart(fc Flowchart) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFlowchart(fc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalFlowchart deserializes JSON bytes to a flowchart.
func UnmarshalFlowchart(data []byte) (Flowchart, error) {
	var fc Flowchart
	if err := json.Unmarshal(data, &fc); err != nil {
		return Flowchart{}, fmt.Errorf("decode: %w", err)
	}
	return fc, nil
}

// WriteFlowchart writes a flowchart as JSON to an io.Writer.
func WriteFlowchart(fc Flowchart, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadFlowchart decodes a JSON flowchart from an io.Reader.
func ReadFlowchart(r io.Reader) (Flowchart, error) {
	var fc Flowchart
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return Flowchart{}, fmt.Errorf("decode: %w", err)
	}
	return fc, nil
}

// WriteFlowchartFile writes a flowchart to a JSON file.
// The file is created with 0644 permissions.
func WriteFlowchartFile(fc Flowchart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteFlowchart(fc, f)
}

// ReadFlowchartFile reads a JSON flowchart file.
func ReadFlowchartFile(path string) (Flowchart, error) {
	f, err := os.Open(path)
	if err != nil {
		return Flowchart{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadFlowchart(f)
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON serializes v as indented JSON.
// If path is "-" or empty, writes to stdout.
func WriteJSON(v any, path string) error {
	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn()
	return EncodeJSON(w, v)
}

// EncodeJSON writes v to w as indented JSON without HTML escaping.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// openOutput resolves the "-" convention shared by every writer here.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

package diagfmt

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"chartlint/internal/diag"
	"chartlint/internal/source"
)

// YAML writes the same document as JSON, encoded as YAML.
func YAML(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	return encodeYAML(w, BuildDiagnosticsOutput(bag, fs, opts))
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/shirtsort/internal/colour"
)

// outputFormat selects how command results are rendered.
type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	case "":
		return formatTable, nil
	}
	return "", fmt.Errorf("invalid format %q (valid: table, json, yaml)", s)
}

// writeStructured renders v as JSON or YAML.
func writeStructured(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q is not structured", format)
}

// isTerminal reports whether w is an interactive terminal. NO_COLOR
// disables swatches even on a terminal.
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}

// swatch renders c as a coloured block on a terminal, or as its hex value.
func swatch(c colour.RGB, tty bool) string {
	if tty {
		return colour.Swatch(c, 4)
	}
	return c.Hex()
}

func confidence(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

package cli

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

// newLogger returns the root logger. Logs always go to w (stderr); command
// results go to stdout.
func newLogger(w io.Writer, verbose, quiet, jsonFormat bool) hclog.Logger {
	level := hclog.Info
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Error
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "shirtsort",
		Level:      level,
		Output:     w,
		JSONFormat: jsonFormat,
	})
}

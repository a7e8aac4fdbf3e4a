package classifier

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Classifier backends.
const (
	BackendNone   = "none"
	BackendGemini = "gemini"
	BackendPlugin = "plugin"
)

// Backends returns the accepted backend names.
func Backends() []string {
	return []string{BackendNone, BackendGemini, BackendPlugin}
}

// Options selects and configures a classifier backend.
type Options struct {
	Backend      string
	Model        string
	GenAIBackend string
	PluginPath   string
	Timeout      time.Duration
	InitTimeout  time.Duration
}

// New returns the Override for opts. Backends are started lazily, so New only
// fails on configuration errors.
func New(opts Options, logger hclog.Logger) (Override, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendNone
	}
	if !slices.Contains(Backends(), backend) {
		return nil, fmt.Errorf("unknown classifier backend %q (valid: %s)", opts.Backend, strings.Join(Backends(), ", "))
	}

	avail := []AvailableOption{
		WithLogger(logger),
		WithTimeout(opts.Timeout),
		WithInitTimeout(opts.InitTimeout),
	}

	switch backend {
	case BackendGemini:
		gopts := GeminiOptions{Model: opts.Model, Backend: opts.GenAIBackend}
		return NewAvailable(func(ctx context.Context) (Classifier, error) {
			return NewGemini(ctx, gopts, logger.Named("gemini"))
		}, avail...), nil

	case BackendPlugin:
		if opts.PluginPath == "" {
			return nil, fmt.Errorf("classifier backend %q requires a plugin path", BackendPlugin)
		}
		path := opts.PluginPath
		return NewAvailable(func(ctx context.Context) (Classifier, error) {
			return NewPlugin(ctx, path, logger.Named("plugin"))
		}, avail...), nil
	}

	return Unavailable{Reason: "no classifier configured"}, nil
}

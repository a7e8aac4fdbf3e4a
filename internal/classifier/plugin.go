package classifier

import (
	"context"
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/shirtsort/internal/plugin/executor"
	"github.com/jmylchreest/shirtsort/pkg/plugin"
)

// Plugin labels images with an external classifier plugin.
type Plugin struct {
	exec *executor.PluginExecutor
}

// NewPlugin starts the plugin at path and detects its protocol.
func NewPlugin(ctx context.Context, path string, logger hclog.Logger) (*Plugin, error) {
	exec, err := executor.New(ctx, path, logger)
	if err != nil {
		return nil, err
	}
	return &Plugin{exec: exec}, nil
}

// Classify sends img to the plugin as PNG.
func (p *Plugin) Classify(ctx context.Context, img image.Image) ([]Classification, error) {
	data, mime, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	labels, err := p.exec.Classify(ctx, plugin.ClassifyRequest{Image: data, MIME: mime})
	if err != nil {
		return nil, err
	}

	out := make([]Classification, len(labels))
	for i, l := range labels {
		out[i] = Classification{Label: l.Label, Score: l.Score}
	}
	return out, nil
}

// Close stops the plugin process.
func (p *Plugin) Close() error {
	p.exec.Close()
	return nil
}

// palette - k-means colour labeller (shirtsort classifier plugin)
//
// Labels a photo with the names of its most prominent colours, heaviest
// first, e.g. "navy garment". It needs no network access and is mostly
// useful for testing the plugin path end to end.
//
// Uses the go-plugin RPC protocol.
//
// Build:
//
//	go build -o shirtsort-palette ./contrib/plugins/classifier/palette
//
// Usage:
//
//	shirtsort group --classifier plugin --classifier-plugin ./shirtsort-palette ./photos
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/jmylchreest/shirtsort/internal/colour"
	"github.com/jmylchreest/shirtsort/internal/regions"
	"github.com/jmylchreest/shirtsort/pkg/plugin"
)

const paletteSize = 3

// PalettePlugin implements plugin.ClassifierPlugin.
type PalettePlugin struct{}

// Classify decodes the photo, crops it to the torso area and names the
// k-means palette entries.
func (p *PalettePlugin) Classify(ctx context.Context, req plugin.ClassifyRequest) ([]plugin.Classification, error) {
	img, _, err := image.Decode(bytes.NewReader(req.Image))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", req.MIME, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	norm := regions.NewSampler().Normalize(img)
	torso := norm.SubImage(regions.FallbackRegion().Rect(norm.Bounds()))

	entries, err := colour.ProminentPalette(torso, paletteSize)
	if err != nil {
		return nil, err
	}

	labels := make([]plugin.Classification, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, plugin.Classification{
			Label: strings.ToLower(e.Name) + " garment",
			Score: e.Weight,
		})
	}
	return labels, nil
}

// GetMetadata returns plugin metadata.
func (p *PalettePlugin) GetMetadata() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:            "palette",
		Version:         "1.0.0",
		ProtocolVersion: plugin.ProtocolVersion,
		Description:     "Label photos with their k-means palette colour names",
		PluginProtocol:  string(plugin.PluginTypeGoPlugin),
	}
}

func main() {
	plugin.Serve(&PalettePlugin{})
}

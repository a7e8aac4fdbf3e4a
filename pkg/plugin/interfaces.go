package plugin

import (
	"context"
)

// ClassifierPlugin is the interface that classifier plugins must implement
// for go-plugin RPC.
type ClassifierPlugin interface {
	// Classify labels the photo in req. Labels that mention a colour
	// ("red t-shirt", "navy polo") are what the host looks for.
	Classify(ctx context.Context, req ClassifyRequest) ([]Classification, error)

	// GetMetadata returns plugin metadata.
	GetMetadata() PluginInfo
}

package plugin

// PluginInfo contains metadata about a plugin.
type PluginInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Description     string `json:"description"`
	PluginProtocol  string `json:"plugin_protocol"` // "json-stdio" or "go-plugin"
}

// ClassifyRequest carries one encoded photo to a classifier plugin.
// It is also the json-stdio request document.
type ClassifyRequest struct {
	// Image is the encoded photo. JSON encodes it as base64.
	Image []byte `json:"image"`

	// MIME is the media type of Image, e.g. "image/png".
	MIME string `json:"mime"`
}

// Classification is one label a plugin assigned to a photo. The json-stdio
// response is a JSON array of these, ordered by rank.
type Classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

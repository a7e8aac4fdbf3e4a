// Package plugin provides the public API for shirtsort classifier plugins.
// External plugins should import this package instead of internal packages.
package plugin

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current plugin API version.
	// Format: MAJOR.MINOR.PATCH.
	// - Increment MAJOR for breaking changes (incompatible API changes).
	// - Increment MINOR for backward-compatible additions.
	// - Increment PATCH for backward-compatible bug fixes.
	ProtocolVersion = "0.1.0"

	// MinCompatibleVersion is the oldest protocol version this host can work with.
	MinCompatibleVersion = "0.1.0"

	// InfoFlag is the argument a plugin must answer with its PluginInfo JSON.
	InfoFlag = "--plugin-info"

	// PluginName is the name under which the classifier is dispensed.
	PluginName = "classifier"
)

// Handshake is the handshake configuration for go-plugin protocol.
// go-plugin only compares the single ProtocolVersion number, so it carries
// the major version; full semantic checks happen on the --plugin-info reply.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  0,
	MagicCookieKey:   "SHIRTSORT_PLUGIN",
	MagicCookieValue: "shirtsort_classifier",
}

// PluginType defines the type of plugin communication protocol.
type PluginType string

const (
	// PluginTypeGoPlugin indicates the plugin uses HashiCorp go-plugin RPC protocol.
	PluginTypeGoPlugin PluginType = "go-plugin"

	// PluginTypeJSON indicates the plugin uses simple JSON over stdin/stdout.
	PluginTypeJSON PluginType = "json-stdio"
)

package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/jmylchreest/shirtsort/pkg/plugin"
)

// DefaultDetectTimeout bounds the --plugin-info query.
const DefaultDetectTimeout = 5 * time.Second

// DetectorResult contains information about a detected plugin protocol.
type DetectorResult struct {
	// Type indicates which protocol the plugin uses.
	Type plugin.PluginType

	// PluginInfo contains metadata from --plugin-info.
	PluginInfo plugin.PluginInfo
}

// DetectProtocol runs the plugin with --plugin-info and reads its reply.
// An empty plugin_protocol defaults to json-stdio. The reported protocol
// version must be compatible with this host.
func DetectProtocol(ctx context.Context, pluginPath string) (*DetectorResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultDetectTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, pluginPath, plugin.InfoFlag) // #nosec G204 - plugin path is user configured
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to query plugin: %w", err)
	}

	return ParseInfo(output)
}

// ParseInfo decodes a --plugin-info reply.
func ParseInfo(output []byte) (*DetectorResult, error) {
	var info plugin.PluginInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("failed to parse plugin info: %w", err)
	}

	result := &DetectorResult{PluginInfo: info}

	switch plugin.PluginType(info.PluginProtocol) {
	case plugin.PluginTypeGoPlugin:
		result.Type = plugin.PluginTypeGoPlugin
	case plugin.PluginTypeJSON, "":
		result.Type = plugin.PluginTypeJSON
	default:
		return nil, fmt.Errorf("unknown plugin_protocol: %s", info.PluginProtocol)
	}

	if info.ProtocolVersion != "" {
		if ok, err := IsCompatible(info.ProtocolVersion); !ok {
			return nil, fmt.Errorf("plugin %s: %w", info.Name, err)
		}
	}

	return result, nil
}

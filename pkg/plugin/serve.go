package plugin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-plugin"
)

// Serve runs impl as a go-plugin classifier. When the process is started with
// InfoFlag it prints the plugin metadata as JSON and exits instead, which is
// how the host detects the protocol before launching the plugin for real.
func Serve(impl ClassifierPlugin) {
	if len(os.Args) > 1 && os.Args[1] == InfoFlag {
		if err := WriteInfo(os.Stdout, impl.GetMetadata()); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plugin info: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			PluginName: &ClassifierPluginRPC{Impl: impl},
		},
	})
}

// WriteInfo encodes info for the --plugin-info reply. Missing protocol fields
// are filled with the go-plugin defaults of this package.
func WriteInfo(w io.Writer, info PluginInfo) error {
	if info.ProtocolVersion == "" {
		info.ProtocolVersion = ProtocolVersion
	}
	if info.PluginProtocol == "" {
		info.PluginProtocol = string(PluginTypeGoPlugin)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

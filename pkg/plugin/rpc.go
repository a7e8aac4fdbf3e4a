package plugin

import (
	"context"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// ClassifierPluginRPC implements the go-plugin Plugin interface for
// classifier plugins.
type ClassifierPluginRPC struct {
	plugin.Plugin
	Impl ClassifierPlugin
}

// Server returns an RPC server for this plugin.
func (p *ClassifierPluginRPC) Server(*plugin.MuxBroker) (any, error) {
	return &ClassifierPluginRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *ClassifierPluginRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &ClassifierPluginRPCClient{client: c}, nil
}

// ClassifierPluginRPCServer is the RPC server implementation for classifier plugins.
type ClassifierPluginRPCServer struct {
	Impl ClassifierPlugin
}

// Classify implements the RPC method for photo classification.
func (s *ClassifierPluginRPCServer) Classify(req ClassifyRequest, resp *[]Classification) error {
	result, err := s.Impl.Classify(context.Background(), req)
	if err != nil {
		return &RPCError{Message: err.Error()}
	}
	*resp = result
	return nil
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *ClassifierPluginRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// ClassifierPluginRPCClient is the RPC client implementation for classifier plugins.
type ClassifierPluginRPCClient struct {
	client *rpc.Client
}

// Classify calls the remote Classify method. net/rpc has no cancellation, so
// a cancelled ctx abandons the call and the reply is discarded.
func (c *ClassifierPluginRPCClient) Classify(ctx context.Context, req ClassifyRequest) ([]Classification, error) {
	var result []Classification
	call := c.client.Go("Plugin.Classify", req, &result, make(chan *rpc.Call, 1))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case done := <-call.Done:
		if done.Error != nil {
			return nil, done.Error
		}
		return result, nil
	}
}

// GetMetadata calls the remote GetMetadata method. Transport errors yield an
// empty PluginInfo.
func (c *ClassifierPluginRPCClient) GetMetadata() PluginInfo {
	var info PluginInfo
	if err := c.client.Call("Plugin.GetMetadata", new(any), &info); err != nil {
		return PluginInfo{}
	}
	return info
}

// RPCError represents an error returned from an RPC call.
type RPCError struct {
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}

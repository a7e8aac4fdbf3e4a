// Package executor runs classifier plugins regardless of their underlying
// protocol (go-plugin RPC or JSON-stdio).
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/shirtsort/internal/plugin/protocol"
	"github.com/jmylchreest/shirtsort/pkg/plugin"
)

// ErrClosed is returned by Classify after Close.
var ErrClosed = errors.New("plugin executor closed")

// PluginExecutor provides a unified interface for executing classifier plugins.
type PluginExecutor struct {
	path         string
	protocolType plugin.PluginType
	info         plugin.PluginInfo
	logger       hclog.Logger
	runner       ProcessRunner

	mu        sync.Mutex
	client    *goplugin.Client
	rpcClient *plugin.ClassifierPluginRPCClient
	closed    bool
}

// New creates a new PluginExecutor by detecting the plugin's protocol.
func New(ctx context.Context, pluginPath string, logger hclog.Logger) (*PluginExecutor, error) {
	return NewWithRunner(ctx, pluginPath, logger, NewRealProcessRunner())
}

// NewWithRunner creates a new PluginExecutor that runs json-stdio plugins
// through runner. Protocol detection always executes the real binary.
func NewWithRunner(ctx context.Context, pluginPath string, logger hclog.Logger, runner ProcessRunner) (*PluginExecutor, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	result, err := protocol.DetectProtocol(ctx, pluginPath)
	if err != nil {
		return nil, fmt.Errorf("failed to detect plugin protocol: %w", err)
	}

	logger.Debug("detected plugin",
		"path", pluginPath,
		"name", result.PluginInfo.Name,
		"version", result.PluginInfo.Version,
		"protocol", result.Type)

	// go-plugin clients are started lazily on the first Classify.
	return &PluginExecutor{
		path:         pluginPath,
		protocolType: result.Type,
		info:         result.PluginInfo,
		logger:       logger,
		runner:       runner,
	}, nil
}

// Info returns the metadata the plugin reported during detection.
func (e *PluginExecutor) Info() plugin.PluginInfo {
	return e.info
}

// Protocol returns the detected protocol.
func (e *PluginExecutor) Protocol() plugin.PluginType {
	return e.protocolType
}

// Classify sends one encoded photo to the plugin and returns its labels in
// the order the plugin ranked them.
func (e *PluginExecutor) Classify(ctx context.Context, req plugin.ClassifyRequest) ([]plugin.Classification, error) {
	switch e.protocolType {
	case plugin.PluginTypeGoPlugin:
		return e.classifyGoPlugin(ctx, req)
	case plugin.PluginTypeJSON:
		return e.classifyJSON(ctx, req)
	default:
		return nil, fmt.Errorf("unsupported protocol type: %s", e.protocolType)
	}
}

// Close cleans up any resources held by the executor.
func (e *PluginExecutor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	if e.client != nil {
		e.client.Kill()
		e.client = nil
		e.rpcClient = nil
	}
}

// --- Go-Plugin RPC implementation ---

func (e *PluginExecutor) getRPCClient() (*plugin.ClassifierPluginRPCClient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if e.rpcClient != nil {
		return e.rpcClient, nil
	}

	e.client = goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: plugin.Handshake,
		Plugins: map[string]goplugin.Plugin{
			plugin.PluginName: &plugin.ClassifierPluginRPC{},
		},
		Cmd:              exec.Command(e.path), // #nosec G204 - plugin path is user configured
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           e.logger,
	})

	rpcClient, err := e.client.Client()
	if err != nil {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(plugin.PluginName)
	if err != nil {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	client, ok := raw.(*plugin.ClassifierPluginRPCClient)
	if !ok {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("unexpected plugin client type %T", raw)
	}
	e.rpcClient = client

	return client, nil
}

func (e *PluginExecutor) classifyGoPlugin(ctx context.Context, req plugin.ClassifyRequest) ([]plugin.Classification, error) {
	client, err := e.getRPCClient()
	if err != nil {
		return nil, err
	}
	return client.Classify(ctx, req)
}

// --- JSON-stdio implementation ---

func (e *PluginExecutor) classifyJSON(ctx context.Context, req plugin.ClassifyRequest) ([]plugin.Classification, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	stdout, stderr, err := e.runner.Run(ctx, e.path, nil, bytes.NewReader(reqJSON))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("plugin execution failed: %w", ctxErr)
		}
		return nil, fmt.Errorf("plugin execution failed: %w\nStderr: %s", err, strings.TrimSpace(string(stderr)))
	}

	return parseClassifications(stdout)
}

// parseClassifications accepts either a bare array of classifications or an
// object wrapping it under "classifications".
func parseClassifications(out []byte) ([]plugin.Classification, error) {
	trimmed := bytes.TrimSpace(out)

	var list []plugin.Classification
	if err := json.Unmarshal(trimmed, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Classifications []plugin.Classification `json:"classifications"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err == nil && wrapped.Classifications != nil {
		return wrapped.Classifications, nil
	}

	return nil, fmt.Errorf("failed to parse plugin output\nOutput: %s", string(trimmed))
}

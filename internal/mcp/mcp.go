// Package mcp provides the deskbridge MCP server: the fixed catalogue of
// operations the desktop front end may call.
package mcp

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rediacc/deskbridge"
	"github.com/rediacc/deskbridge/internal/bridge"
	"github.com/rediacc/deskbridge/internal/config"
	"github.com/rediacc/deskbridge/internal/probe"
	"github.com/rediacc/deskbridge/internal/runner"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	bridge *bridge.Bridge
	probe  *probe.Probe
	log    *slog.Logger
	goos   string
}

// NewServer creates an MCP server with every operation available on the
// host platform registered.
func NewServer(cfg *config.Config, r *runner.Runner, opts ...ServerOption) *mcp.Server {
	so := serverOptions{goos: runtime.GOOS, logger: slog.Default()}
	for _, o := range opts {
		o(&so)
	}

	h := &handler{
		bridge: &bridge.Bridge{Config: cfg, Runner: r, GOOS: so.goos},
		probe:  &probe.Probe{Config: cfg, Runner: r, Logger: so.logger},
		log:    so.logger,
		goos:   so.goos,
	}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "deskbridge", Version: deskbridge.Version}, mcpOpts)

	registerTools(s, h, so.goos)
	return s
}

// ServerOption configures the deskbridge MCP server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	goos   string
	logger *slog.Logger
}

// WithPlatform overrides the platform used to gate platform-specific
// tools, to pick the shell and to answer environment_info.
func WithPlatform(goos string) ServerOption {
	return func(o *serverOptions) {
		o.goos = goos
	}
}

// WithLogger sets the logger used by tool handlers and probes.
func WithLogger(l *slog.Logger) ServerOption {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}

// jsonResult encodes v as the text content of a successful result.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(fmt.Sprintf("encoding result: %v", err))
	}
	return textResult(string(data))
}

// commandResult converts a process outcome into a tool result. A process
// that ran is never a tool error, whatever its exit status; a process
// that could not be started is.
func commandResult(res *runner.Result, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(res.CommandResult)
}

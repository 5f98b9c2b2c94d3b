package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rediacc/deskbridge/internal/bridge"
	"github.com/rediacc/deskbridge/internal/probe"
)

type noParams struct{}

type presence struct {
	Present bool `json:"present"`
}

func (h *handler) checkPython(ctx context.Context, req *mcp.CallToolRequest, _ noParams) (*mcp.CallToolResult, any, error) {
	return jsonResult(presence{Present: h.probe.InterpreterPresent(ctx)})
}

func (h *handler) checkCLI(ctx context.Context, req *mcp.CallToolRequest, _ noParams) (*mcp.CallToolResult, any, error) {
	return jsonResult(presence{Present: h.probe.ToolPresent(ctx)})
}

func (h *handler) pythonVersion(ctx context.Context, req *mcp.CallToolRequest, _ noParams) (*mcp.CallToolResult, any, error) {
	v, err := h.probe.InterpreterVersion(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("Python %v", err))
	}
	return jsonResult(struct {
		Version string `json:"version"`
	}{v})
}

func (h *handler) environmentInfo(ctx context.Context, req *mcp.CallToolRequest, _ noParams) (*mcp.CallToolResult, any, error) {
	return jsonResult(probe.InfoFor(h.goos))
}

func (h *handler) detectDistro(ctx context.Context, req *mcp.CallToolRequest, _ noParams) (*mcp.CallToolResult, any, error) {
	return jsonResult(struct {
		Distro string `json:"distro"`
	}{h.probe.Distro(ctx)})
}

type listParams struct {
	Path string `json:"path" jsonschema:"Local directory whose subdirectories are listed."`
}

func (h *handler) listDirectories(ctx context.Context, req *mcp.CallToolRequest, params listParams) (*mcp.CallToolResult, any, error) {
	dirs, err := bridge.ListLocalDirectories(params.Path)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(struct {
		Directories []string `json:"directories"`
	}{dirs})
}

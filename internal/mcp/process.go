package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rediacc/deskbridge/internal/bridge"
)

type scriptParams struct {
	Path string   `json:"script_path" jsonschema:"Path of the Python script to run."`
	Args []string `json:"args,omitempty" jsonschema:"Arguments passed to the script, in order."`
}

func (h *handler) runScript(ctx context.Context, req *mcp.CallToolRequest, params scriptParams) (*mcp.CallToolResult, any, error) {
	return commandResult(h.bridge.RunScript(ctx, bridge.ScriptRequest{Path: params.Path, Args: params.Args}))
}

type inlineParams struct {
	Code string   `json:"code" jsonschema:"Python source to run with python -c."`
	Args []string `json:"args,omitempty" jsonschema:"Arguments exposed to the code as sys.argv[1:]."`
}

func (h *handler) runInline(ctx context.Context, req *mcp.CallToolRequest, params inlineParams) (*mcp.CallToolResult, any, error) {
	return commandResult(h.bridge.RunInline(ctx, bridge.InlineRequest{Code: params.Code, Args: params.Args}))
}

type moduleParams struct {
	Module string   `json:"module" jsonschema:"Importable module name, run with python -m."`
	Args   []string `json:"args,omitempty" jsonschema:"Arguments passed to the module, in order."`
}

func (h *handler) runModule(ctx context.Context, req *mcp.CallToolRequest, params moduleParams) (*mcp.CallToolResult, any, error) {
	return commandResult(h.bridge.RunModule(ctx, bridge.ModuleRequest{Module: params.Module, Args: params.Args}))
}

type syncParams struct {
	Action    string   `json:"action" jsonschema:"Sync direction, e.g. upload or download."`
	LocalPath string   `json:"local_path" jsonschema:"Local folder to sync."`
	Machine   string   `json:"machine" jsonschema:"Target machine name."`
	Repo      string   `json:"repo" jsonschema:"Target repository name."`
	Options   []string `json:"options,omitempty" jsonschema:"Extra flags appended verbatim, e.g. --mirror --verify."`
}

func (h *handler) syncFiles(ctx context.Context, req *mcp.CallToolRequest, params syncParams) (*mcp.CallToolResult, any, error) {
	return commandResult(h.bridge.Sync(ctx, bridge.SyncRequest{
		Action:    params.Action,
		LocalPath: params.LocalPath,
		Machine:   params.Machine,
		Repo:      params.Repo,
		Options:   params.Options,
	}))
}

type terminalParams struct {
	Machine string `json:"machine" jsonschema:"Machine to connect to."`
	Repo    string `json:"repo,omitempty" jsonschema:"Repository to enter on the machine."`
	Command string `json:"command,omitempty" jsonschema:"Single command to run instead of an interactive session."`
}

func (h *handler) openTerminal(ctx context.Context, req *mcp.CallToolRequest, params terminalParams) (*mcp.CallToolResult, any, error) {
	return commandResult(h.bridge.Terminal(ctx, bridge.TerminalRequest{
		Machine: params.Machine,
		Repo:    params.Repo,
		Command: params.Command,
	}))
}

type cliParams struct {
	Mode string   `json:"mode,omitempty" jsonschema:"Which CLI to run: sync, term or plugin. Anything else runs the base CLI."`
	Args []string `json:"args,omitempty" jsonschema:"Arguments passed verbatim."`
}

func (h *handler) runCLI(ctx context.Context, req *mcp.CallToolRequest, params cliParams) (*mcp.CallToolResult, any, error) {
	return commandResult(h.bridge.RunCLI(ctx, bridge.CLIRequest{Mode: params.Mode, Args: params.Args}))
}

type shellParams struct {
	Command string `json:"command" jsonschema:"Command line handed verbatim to the host shell."`
}

func (h *handler) runShell(ctx context.Context, req *mcp.CallToolRequest, params shellParams) (*mcp.CallToolResult, any, error) {
	h.log.Info("running shell command", "command", params.Command)
	return commandResult(h.bridge.Shell(ctx, bridge.ShellRequest{Command: params.Command}))
}

package mcp

import (
	"context"
	"slices"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolDef holds the static definition of one operation.
type toolDef struct {
	// tool is the name and description shown to the front end.
	tool sdkmcp.Tool
	// platforms lists the GOOS values the tool exists on; nil means all.
	platforms []string
	// register binds the tool to its handler on a server.
	register func(s *sdkmcp.Server, h *handler, t *sdkmcp.Tool)
}

// bind adapts a handler method to a registration function.
func bind[In any](fn func(*handler, context.Context, *sdkmcp.CallToolRequest, In) (*sdkmcp.CallToolResult, any, error)) func(*sdkmcp.Server, *handler, *sdkmcp.Tool) {
	return func(s *sdkmcp.Server, h *handler, t *sdkmcp.Tool) {
		sdkmcp.AddTool(s, t, func(ctx context.Context, req *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
			return fn(h, ctx, req, in)
		})
	}
}

// tools is the complete operation catalogue. It is never mutated;
// per-platform availability is decided by the platforms field.
var tools = []toolDef{
	{
		tool: sdkmcp.Tool{
			Name: "run_python_script",
			Description: `Run a Python script file with the host interpreter.

Tries python3, then python. Returns {success, output, error}; success mirrors the exit status.`,
		},
		register: bind((*handler).runScript),
	},
	{
		tool: sdkmcp.Tool{
			Name: "run_python_inline",
			Description: `Run Python source passed as a string (python -c).

Returns {success, output, error}.`,
		},
		register: bind((*handler).runInline),
	},
	{
		tool: sdkmcp.Tool{
			Name: "run_python_module",
			Description: `Run an installed Python module as a program (python -m).

Returns {success, output, error}.`,
		},
		register: bind((*handler).runModule),
	},
	{
		tool: sdkmcp.Tool{
			Name: "sync_files",
			Description: `Upload or download a local folder to a machine repository with the sync CLI.

Builds: <action> --local <path> --machine <name> --repo <name> [options...].
Empty fields are omitted. Returns {success, output, error}.`,
		},
		register: bind((*handler).syncFiles),
	},
	{
		tool: sdkmcp.Tool{
			Name: "open_terminal",
			Description: `Run the terminal CLI against a machine, optionally inside a repository
and optionally with a single command. Returns {success, output, error}.`,
		},
		register: bind((*handler).openTerminal),
	},
	{
		tool: sdkmcp.Tool{
			Name: "run_cli",
			Description: `Run a CLI executable selected by mode (sync, term, plugin).
Unknown modes run the base CLI. Arguments are passed verbatim.
Returns {success, output, error}.`,
		},
		register: bind((*handler).runCLI),
	},
	{
		tool: sdkmcp.Tool{
			Name: "run_shell",
			Description: `Run a raw command line through the host shell (sh -c, or cmd /C on Windows).

The command is executed verbatim with the user's privileges. Only call this
after the user has explicitly confirmed the exact command.
Returns {success, output, error}.`,
		},
		register: bind((*handler).runShell),
	},
	{
		tool: sdkmcp.Tool{
			Name:        "check_python",
			Description: `Report whether a Python interpreter is installed. Returns {"present": bool}.`,
		},
		register: bind((*handler).checkPython),
	},
	{
		tool: sdkmcp.Tool{
			Name:        "check_cli",
			Description: `Report whether the rediacc CLI is installed. Returns {"present": bool}.`,
		},
		register: bind((*handler).checkCLI),
	},
	{
		tool: sdkmcp.Tool{
			Name:        "python_version",
			Description: `Return the interpreter version string, e.g. "Python 3.12.1". Fails when no interpreter is found.`,
		},
		register: bind((*handler).pythonVersion),
	},
	{
		tool: sdkmcp.Tool{
			Name:        "environment_info",
			Description: `Return {platform, architecture, family} of the host.`,
		},
		register: bind((*handler).environmentInfo),
	},
	{
		tool: sdkmcp.Tool{
			Name: "list_directories",
			Description: `List the immediate subdirectories of a local path, sorted by name.

Fails distinctly when the path does not exist, is not a directory, or cannot be read.`,
		},
		register: bind((*handler).listDirectories),
	},
	{
		tool: sdkmcp.Tool{
			Name:        "detect_distro",
			Description: `Return a description of the Linux distribution, or "Unknown".`,
		},
		platforms: []string{"linux"},
		register:  bind((*handler).detectDistro),
	},
}

// registerTools adds every tool available on goos to s.
func registerTools(s *sdkmcp.Server, h *handler, goos string) {
	for _, def := range tools {
		if def.platforms != nil && !slices.Contains(def.platforms, goos) {
			continue
		}
		t := def.tool // copy: the table stays untouched
		def.register(s, h, &t)
	}
}

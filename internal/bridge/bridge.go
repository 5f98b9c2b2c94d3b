// Package bridge maps front-end operation requests onto host processes.
// Each operation builds an argument vector from a structured request and
// hands it to the runner; results come back as runner.Result untouched.
package bridge

import (
	"context"
	"runtime"

	"github.com/rediacc/deskbridge/internal/config"
	"github.com/rediacc/deskbridge/internal/runner"
)

// CommandRunner executes host processes.
// Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, executable string, args []string) (*runner.Result, error)
	RunFirst(ctx context.Context, candidates []string, args []string) (*runner.Result, error)
}

// Bridge holds shared dependencies for all operations.
type Bridge struct {
	Config *config.Config
	Runner CommandRunner
	GOOS   string // host platform; empty means runtime.GOOS
}

func (b *Bridge) goos() string {
	if b.GOOS != "" {
		return b.GOOS
	}
	return runtime.GOOS
}

// ToolName maps a run_cli mode token to an executable. Unknown modes,
// including the empty one, fall back to the base CLI rather than failing.
func (b *Bridge) ToolName(mode string) string {
	if exe, ok := b.Config.Modes()[mode]; ok && exe != "" {
		return exe
	}
	return b.Config.Base()
}

// RunScript runs an interpreter script file.
func (b *Bridge) RunScript(ctx context.Context, req ScriptRequest) (*runner.Result, error) {
	return b.interpret(ctx, req.argv())
}

// RunInline runs interpreter source passed on the command line.
func (b *Bridge) RunInline(ctx context.Context, req InlineRequest) (*runner.Result, error) {
	return b.interpret(ctx, req.argv())
}

// RunModule runs an installed interpreter module as a program.
func (b *Bridge) RunModule(ctx context.Context, req ModuleRequest) (*runner.Result, error) {
	return b.interpret(ctx, req.argv())
}

func (b *Bridge) interpret(ctx context.Context, args []string) (*runner.Result, error) {
	res, err := b.Runner.RunFirst(ctx, b.Config.Interpreters(), args)
	if err != nil {
		return nil, unavailable("python", err)
	}
	return res, nil
}

// Sync runs the file sync CLI.
func (b *Bridge) Sync(ctx context.Context, req SyncRequest) (*runner.Result, error) {
	return b.cli(ctx, b.ToolName("sync"), req.argv())
}

// Terminal runs the remote terminal CLI.
func (b *Bridge) Terminal(ctx context.Context, req TerminalRequest) (*runner.Result, error) {
	return b.cli(ctx, b.ToolName("term"), req.argv())
}

// RunCLI runs the CLI executable selected by the request mode.
func (b *Bridge) RunCLI(ctx context.Context, req CLIRequest) (*runner.Result, error) {
	return b.cli(ctx, b.ToolName(req.Mode), req.Args)
}

func (b *Bridge) cli(ctx context.Context, exe string, args []string) (*runner.Result, error) {
	res, err := b.Runner.Run(ctx, exe, args)
	if err != nil {
		return nil, unavailable(exe, err)
	}
	return res, nil
}

// Shell hands req.Command to the host command interpreter verbatim.
// This is arbitrary code execution by contract.
func (b *Bridge) Shell(ctx context.Context, req ShellRequest) (*runner.Result, error) {
	exe, args := runner.ShellArgv(b.goos(), req.Command)
	return b.Runner.Run(ctx, exe, args)
}

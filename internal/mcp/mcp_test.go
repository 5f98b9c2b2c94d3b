package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rediacc/deskbridge/internal/config"
	"github.com/rediacc/deskbridge/internal/runner"
)

// setup creates a deskbridge MCP server + client over in-memory transports.
func setup(t *testing.T, cfg *config.Config, opts ...ServerOption) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	if cfg == nil {
		cfg = &config.Config{}
	}
	server := NewServer(cfg, &runner.Runner{}, opts...)

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})

	return cs
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// script writes an executable shell script and returns its path.
func script(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func resultText(r *mcp.CallToolResult) string {
	var parts []string
	for _, c := range r.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// decode unmarshals the JSON text of a successful result into v.
func decode(t *testing.T, r *mcp.CallToolResult, v any) {
	t.Helper()
	text := resultText(r)
	if r.IsError {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("decoding %q: %v", text, err)
	}
}

func toolNames(t *testing.T, cs *mcp.ClientSession) map[string]bool {
	t.Helper()
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := make(map[string]bool, len(res.Tools))
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	return names
}

// --- catalogue ---

func TestTools_Linux(t *testing.T) {
	cs := setup(t, nil, WithPlatform("linux"))
	names := toolNames(t, cs)
	for _, def := range tools {
		if !names[def.tool.Name] {
			t.Errorf("tool %s not registered on linux", def.tool.Name)
		}
	}
}

func TestTools_DistroGatedToLinux(t *testing.T) {
	for _, goos := range []string{"windows", "darwin"} {
		cs := setup(t, nil, WithPlatform(goos))
		names := toolNames(t, cs)
		if names["detect_distro"] {
			t.Errorf("detect_distro registered on %s", goos)
		}
		if !names["run_shell"] || !names["environment_info"] {
			t.Errorf("common tools missing on %s: %v", goos, names)
		}
	}
}

// --- command tools ---

func TestRunShell(t *testing.T) {
	skipOnWindows(t)
	cs := setup(t, nil, WithPlatform(runtime.GOOS))
	res := callTool(t, cs, "run_shell", map[string]any{"command": "echo out; echo err >&2; exit 5"})

	var got runner.CommandResult
	decode(t, res, &got)
	want := runner.CommandResult{Success: false, Output: "out\n", Error: "err\n"}
	if got != want {
		t.Errorf("run_shell = %+v, want %+v", got, want)
	}
}

func TestSyncFiles(t *testing.T) {
	skipOnWindows(t)
	cfg := &config.Config{CLI: config.CLIConfig{Modes: map[string]string{"sync": "echo"}}}
	cs := setup(t, cfg)
	res := callTool(t, cs, "sync_files", map[string]any{
		"action":     "upload",
		"local_path": "/data",
		"machine":    "m1",
		"repo":       "r1",
		"options":    []string{"--mirror", "--verify"},
	})

	var got runner.CommandResult
	decode(t, res, &got)
	if !got.Success {
		t.Errorf("Success = false: %+v", got)
	}
	want := "upload --local /data --machine m1 --repo r1 --mirror --verify\n"
	if got.Output != want {
		t.Errorf("Output = %q, want %q", got.Output, want)
	}
}

func TestOpenTerminal_OptionalFields(t *testing.T) {
	skipOnWindows(t)
	cfg := &config.Config{CLI: config.CLIConfig{Modes: map[string]string{"term": "echo"}}}
	cs := setup(t, cfg)
	res := callTool(t, cs, "open_terminal", map[string]any{"machine": "m1", "command": "uptime"})

	var got runner.CommandResult
	decode(t, res, &got)
	if got.Output != "--machine m1 --command uptime\n" {
		t.Errorf("Output = %q", got.Output)
	}
}

func TestRunCLI_UnknownModeUsesBase(t *testing.T) {
	skipOnWindows(t)
	base := script(t, `echo "base $*"`)
	cfg := &config.Config{CLI: config.CLIConfig{Base: base}}
	cs := setup(t, cfg)
	res := callTool(t, cs, "run_cli", map[string]any{"mode": "nonsense", "args": []string{"status"}})

	var got runner.CommandResult
	decode(t, res, &got)
	if got.Output != "base status\n" {
		t.Errorf("Output = %q, want base CLI output", got.Output)
	}
}

func TestRunCLI_NotInstalled(t *testing.T) {
	cfg := &config.Config{CLI: config.CLIConfig{Base: "missing-cli-xyz-123"}}
	cs := setup(t, cfg)
	res := callTool(t, cs, "run_cli", map[string]any{"args": []string{"status"}})
	if !res.IsError {
		t.Fatalf("expected IsError for missing executable, got %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "missing-cli-xyz-123") {
		t.Errorf("error = %q, want to mention the executable", resultText(res))
	}
}

func TestRunPythonScript_FallsBack(t *testing.T) {
	skipOnWindows(t)
	py := script(t, `echo "ran $*"`)
	cfg := &config.Config{Interpreter: config.InterpreterConfig{Candidates: []string{"missing-python-xyz", py}}}
	cs := setup(t, cfg)
	res := callTool(t, cs, "run_python_script", map[string]any{"script_path": "main.py", "args": []string{"a"}})

	var got runner.CommandResult
	decode(t, res, &got)
	if got.Output != "ran main.py a\n" {
		t.Errorf("Output = %q", got.Output)
	}
}

func TestRunShell_MissingCommand(t *testing.T) {
	cs := setup(t, nil)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "run_shell",
		Arguments: map[string]any{},
	})
	if err == nil && !res.IsError {
		t.Error("expected an error for missing command")
	}
}

// --- probes ---

func TestCheckPython_Absent(t *testing.T) {
	cfg := &config.Config{Interpreter: config.InterpreterConfig{Candidates: []string{"missing-python-xyz"}}}
	cs := setup(t, cfg)

	var got presence
	decode(t, callTool(t, cs, "check_python", nil), &got)
	if got.Present {
		t.Error("Present = true, want false")
	}
}

func TestCheckCLI_Present(t *testing.T) {
	skipOnWindows(t)
	cli := script(t, `echo "rediacc 1.2.3"`)
	cfg := &config.Config{CLI: config.CLIConfig{Base: cli}}
	cs := setup(t, cfg)

	var got presence
	decode(t, callTool(t, cs, "check_cli", nil), &got)
	if !got.Present {
		t.Error("Present = false, want true")
	}
}

func TestPythonVersion(t *testing.T) {
	skipOnWindows(t)
	py := script(t, `echo "Python 3.12.1"`)
	cfg := &config.Config{Interpreter: config.InterpreterConfig{Candidates: []string{py}}}
	cs := setup(t, cfg)

	var got struct {
		Version string `json:"version"`
	}
	decode(t, callTool(t, cs, "python_version", nil), &got)
	if got.Version != "Python 3.12.1" {
		t.Errorf("Version = %q", got.Version)
	}
}

func TestPythonVersion_NotFound(t *testing.T) {
	cfg := &config.Config{Interpreter: config.InterpreterConfig{Candidates: []string{"missing-python-xyz"}}}
	cs := setup(t, cfg)
	res := callTool(t, cs, "python_version", nil)
	if !res.IsError {
		t.Fatalf("expected IsError, got %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "not found") {
		t.Errorf("error = %q, want 'not found'", resultText(res))
	}
}

func TestEnvironmentInfo(t *testing.T) {
	cs := setup(t, nil)
	var got struct {
		Platform     string `json:"platform"`
		Architecture string `json:"architecture"`
		Family       string `json:"family"`
	}
	decode(t, callTool(t, cs, "environment_info", nil), &got)
	if got.Platform != runtime.GOOS || got.Architecture != runtime.GOARCH || got.Family == "" {
		t.Errorf("environment_info = %+v", got)
	}
}

func TestEnvironmentInfo_FollowsPlatform(t *testing.T) {
	cs := setup(t, nil, WithPlatform("windows"))
	var got struct {
		Platform string `json:"platform"`
		Family   string `json:"family"`
	}
	decode(t, callTool(t, cs, "environment_info", nil), &got)
	if got.Platform != "windows" || got.Family != "windows" {
		t.Errorf("environment_info = %+v, want windows/windows", got)
	}
}

func TestDetectDistro_Fallback(t *testing.T) {
	osRelease := filepath.Join(t.TempDir(), "os-release")
	if err := os.WriteFile(osRelease, []byte(`PRETTY_NAME="Test OS 1.0"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Probe: config.ProbeConfig{
		DistroCommand: []string{"missing-lsb-release-xyz"},
		OSRelease:     osRelease,
	}}
	cs := setup(t, cfg, WithPlatform("linux"))

	var got struct {
		Distro string `json:"distro"`
	}
	decode(t, callTool(t, cs, "detect_distro", nil), &got)
	if got.Distro != "Test OS 1.0" {
		t.Errorf("Distro = %q, want %q", got.Distro, "Test OS 1.0")
	}
}

// --- list_directories ---

func TestListDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"b", "a"} {
		if err := os.Mkdir(filepath.Join(dir, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cs := setup(t, nil)
	var got struct {
		Directories []string `json:"directories"`
	}
	decode(t, callTool(t, cs, "list_directories", map[string]any{"path": dir}), &got)
	if strings.Join(got.Directories, ",") != "a,b" {
		t.Errorf("Directories = %v, want [a b]", got.Directories)
	}
}

func TestListDirectories_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cs := setup(t, nil)
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(dir, "missing"), "does not exist"},
		{file, "not a directory"},
	}
	for _, tt := range tests {
		res := callTool(t, cs, "list_directories", map[string]any{"path": tt.path})
		if !res.IsError {
			t.Errorf("list_directories(%s): expected IsError", tt.path)
			continue
		}
		if !strings.Contains(resultText(res), tt.want) {
			t.Errorf("list_directories(%s) = %q, want %q", tt.path, resultText(res), tt.want)
		}
	}
}

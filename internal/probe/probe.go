// Package probe answers capability questions about the host: is the
// interpreter installed, is the CLI installed, what platform is this.
//
// Absence is an expected answer, so presence checks report false rather
// than an error.
package probe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/rediacc/deskbridge/internal/config"
	"github.com/rediacc/deskbridge/internal/runner"
)

// Unknown is reported when no distribution descriptor is available.
const Unknown = "Unknown"

// ErrNotFound is returned when a version cannot be determined.
var ErrNotFound = errors.New("not found")

// CommandRunner executes host processes.
// Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, executable string, args []string) (*runner.Result, error)
	RunFirst(ctx context.Context, candidates []string, args []string) (*runner.Result, error)
}

// EnvironmentInfo describes the host.
type EnvironmentInfo struct {
	Platform     string `json:"platform"`     // e.g. linux, windows, darwin
	Architecture string `json:"architecture"` // e.g. amd64, arm64
	Family       string `json:"family"`       // unix, windows or wasm
}

// Probe runs capability checks.
type Probe struct {
	Config *config.Config
	Runner CommandRunner
	Logger *slog.Logger
}

// InterpreterPresent reports whether any interpreter candidate runs
// successfully with the version flag.
func (p *Probe) InterpreterPresent(ctx context.Context) bool {
	return p.present(ctx, "interpreter", p.Config.Interpreters())
}

// ToolPresent reports whether the CLI runs successfully with the version flag.
func (p *Probe) ToolPresent(ctx context.Context) bool {
	return p.present(ctx, "cli", p.Config.CLICandidates())
}

func (p *Probe) present(ctx context.Context, what string, candidates []string) bool {
	res, err := p.Runner.RunFirst(ctx, candidates, []string{p.Config.VersionFlag()})
	if err != nil {
		p.logger().Debug("presence check failed", "capability", what, "error", err)
		return false
	}
	return res.Success
}

// InterpreterVersion returns the interpreter's one-line version string,
// e.g. "Python 3.12.1".
func (p *Probe) InterpreterVersion(ctx context.Context) (string, error) {
	res, err := p.Runner.RunFirst(ctx, p.Config.Interpreters(), []string{p.Config.VersionFlag()})
	if err != nil {
		return "", fmt.Errorf("interpreter %w: %v", ErrNotFound, err)
	}
	if !res.Success {
		return "", fmt.Errorf("interpreter %w: exit status %d", ErrNotFound, res.ExitCode)
	}
	// Python 2 prints its version on stderr.
	v := firstLine(res.Output)
	if v == "" {
		v = firstLine(res.Error)
	}
	if v == "" {
		return "", fmt.Errorf("interpreter %w: empty version output", ErrNotFound)
	}
	return v, nil
}

// Info returns the host platform description.
func Info() EnvironmentInfo {
	return InfoFor(runtime.GOOS)
}

// InfoFor describes goos on the host architecture.
func InfoFor(goos string) EnvironmentInfo {
	return EnvironmentInfo{
		Platform:     goos,
		Architecture: runtime.GOARCH,
		Family:       family(goos),
	}
}

func family(goos string) string {
	switch goos {
	case "windows":
		return "windows"
	case "js", "wasip1":
		return "wasm"
	default:
		return "unix"
	}
}

// Distro describes the Linux distribution. It asks the descriptor
// command first, then reads the os-release file, and finally settles
// for Unknown. It never fails.
func (p *Probe) Distro(ctx context.Context) string {
	log := p.logger()

	if argv := p.Config.DistroCommand(); len(argv) > 0 {
		res, err := p.Runner.Run(ctx, argv[0], argv[1:])
		switch {
		case err != nil:
			log.Debug("distro command unavailable", "command", argv[0], "error", err)
		case !res.Success:
			log.Debug("distro command failed", "command", argv[0], "exit_code", res.ExitCode)
		default:
			if d := unquote(firstLine(res.Output)); d != "" {
				return d
			}
		}
	}

	data, err := os.ReadFile(p.Config.OSRelease())
	if err != nil {
		log.Debug("os-release unavailable", "path", p.Config.OSRelease(), "error", err)
		return Unknown
	}
	if name := osReleaseField(data, "PRETTY_NAME"); name != "" {
		return name
	}
	return Unknown
}

// osReleaseField extracts key from os-release(5) content.
func osReleaseField(data []byte, key string) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok || k != key {
			continue
		}
		return unquote(strings.TrimSpace(v))
	}
	return ""
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

func (p *Probe) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

package bridge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rediacc/deskbridge/internal/runner"
)

// toolInfo holds install metadata for a known tool.
type toolInfo struct {
	// Pip is the package that provides the tool, if any.
	Pip string
	// AltInstall is an install URL or instruction.
	AltInstall string
}

// knownTools maps logical tool names to their install metadata.
var knownTools = map[string]toolInfo{
	"python":         {AltInstall: "https://www.python.org/downloads/"},
	"rediacc":        {Pip: "rediacc-cli"},
	"rediacc-sync":   {Pip: "rediacc-cli"},
	"rediacc-term":   {Pip: "rediacc-cli"},
	"rediacc-plugin": {Pip: "rediacc-cli"},
}

// ErrToolUnavailable wraps an invocation failure with install
// instructions when the tool is known.
type ErrToolUnavailable struct {
	Name string
	Info *toolInfo
	Err  error
}

// NewErrToolUnavailable returns an ErrToolUnavailable for name wrapping err.
func NewErrToolUnavailable(name string, err error) *ErrToolUnavailable {
	e := &ErrToolUnavailable{Name: name, Err: err}
	if info, ok := knownTools[name]; ok {
		e.Info = &info
	}
	return e
}

func (e *ErrToolUnavailable) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is not available: %v", e.Name, e.Err)

	if e.Info == nil {
		return b.String()
	}

	fmt.Fprintln(&b)
	if e.Info.Pip != "" {
		fmt.Fprintf(&b, "\nInstall:\n  pip install %s", e.Info.Pip)
	} else if e.Info.AltInstall != "" {
		fmt.Fprintf(&b, "\nInstall: %s", e.Info.AltInstall)
	}
	return b.String()
}

func (e *ErrToolUnavailable) Unwrap() error { return e.Err }

// unavailable annotates invocation failures; other errors pass through.
func unavailable(name string, err error) error {
	var ie *runner.InvocationError
	if !errors.As(err, &ie) {
		return err
	}
	return NewErrToolUnavailable(name, err)
}

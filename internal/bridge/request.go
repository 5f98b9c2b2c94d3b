package bridge

// Request fields left empty are absent: they contribute no tokens,
// not even their flag.

// SyncRequest uploads or downloads a local folder to a machine repository.
type SyncRequest struct {
	Action    string   // positional verb, e.g. upload or download
	LocalPath string   // --local
	Machine   string   // --machine
	Repo      string   // --repo
	Options   []string // appended verbatim, e.g. --mirror --verify
}

// argv orders tokens as: action, --local, --machine, --repo, options.
func (r SyncRequest) argv() []string {
	var args []string
	if r.Action != "" {
		args = append(args, r.Action)
	}
	args = appendFlag(args, "--local", r.LocalPath)
	args = appendFlag(args, "--machine", r.Machine)
	args = appendFlag(args, "--repo", r.Repo)
	return append(args, r.Options...)
}

// TerminalRequest opens a terminal session or runs one command remotely.
type TerminalRequest struct {
	Machine string
	Repo    string
	Command string
}

func (r TerminalRequest) argv() []string {
	var args []string
	args = appendFlag(args, "--machine", r.Machine)
	args = appendFlag(args, "--repo", r.Repo)
	return appendFlag(args, "--command", r.Command)
}

// ScriptRequest runs a script file with the interpreter.
type ScriptRequest struct {
	Path string
	Args []string
}

func (r ScriptRequest) argv() []string {
	return append([]string{r.Path}, r.Args...)
}

// InlineRequest runs interpreter source given as a string.
type InlineRequest struct {
	Code string
	Args []string
}

func (r InlineRequest) argv() []string {
	return append([]string{"-c", r.Code}, r.Args...)
}

// ModuleRequest runs an installed module, e.g. when its console script
// is not on PATH.
type ModuleRequest struct {
	Module string
	Args   []string
}

func (r ModuleRequest) argv() []string {
	return append([]string{"-m", r.Module}, r.Args...)
}

// CLIRequest runs the CLI executable selected by Mode.
type CLIRequest struct {
	Mode string
	Args []string
}

// ShellRequest is a raw command line for the host shell.
type ShellRequest struct {
	Command string
}

func appendFlag(args []string, flag, value string) []string {
	if value == "" {
		return args
	}
	return append(args, flag, value)
}

package runner

// ShellArgv returns the host command interpreter invocation for command.
//
// The command is handed to the interpreter verbatim. Whoever can reach a
// caller of ShellArgv can run arbitrary code on the host; gating that is
// the front end's job, not this package's.
func ShellArgv(goos, command string) (string, []string) {
	if goos == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "sh", []string{"-c", command}
}

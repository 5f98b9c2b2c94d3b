package runner

// CommandResult is the normalised outcome of one process execution,
// in the shape the front end renders.
type CommandResult struct {
	Success bool   `json:"success"` // true iff the process exited 0
	Output  string `json:"output"`  // full stdout, lossily decoded
	Error   string `json:"error"`   // full stderr, lossily decoded
}

// Result holds the output of a command execution.
type Result struct {
	CommandResult
	RunID    string // unique identifier for this run, used in logs
	ExitCode int    // process exit code
}

// Package runner spawns host processes and normalises what they return.
//
// A process that cannot be started is an *InvocationError. A process that
// starts and exits non-zero is not an error: it yields a Result with
// Success set to false.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
)

// waitDelay bounds how long Run waits for output pipes to close after the
// child has been killed or has exited.
const waitDelay = time.Second

// Runner executes host binaries and captures their output.
// The zero value is ready to use: no timeout, no output cap, default logger.
type Runner struct {
	Timeout   time.Duration // 0 means the child may run until it exits
	MaxOutput int           // bytes kept per stream; 0 means unlimited
	Logger    *slog.Logger
}

// InvocationError reports that the operating system could not start a process.
type InvocationError struct {
	Executable string
	Err        error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("cannot start %s: %v", e.Executable, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// IsInvocation reports whether err is, or wraps, an *InvocationError.
func IsInvocation(err error) bool {
	var ie *InvocationError
	return errors.As(err, &ie)
}

// Run executes executable with args, resolved via PATH when it has no
// path separator, and blocks until it exits. Stdout and stderr are
// buffered in full and decoded once the process has terminated.
//
// If ctx is cancelled, or the configured timeout expires, the child and
// every process it started are killed and the context error is returned.
func (r *Runner) Run(ctx context.Context, executable string, args []string) (*Result, error) {
	log := r.logger()
	if executable == "" {
		return nil, &InvocationError{Executable: `""`, Err: errors.New("empty executable name")}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	runID := uuid.New().String()
	log = log.With("run_id", runID, "executable", executable)

	cmd := exec.CommandContext(ctx, executable, args...)
	setProcessGroup(cmd)
	var killed atomic.Bool
	cmd.Cancel = func() error {
		err := killProcess(cmd)
		if err == nil {
			killed.Store(true)
		}
		return err
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = r.sink(&stdout)
	cmd.Stderr = r.sink(&stderr)

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if ctxErr := ctx.Err(); cancelled(runErr, ctxErr, killed.Load()) {
		log.Warn("run cancelled", "args", args, "duration", elapsed, "cause", ctxErr)
		return nil, fmt.Errorf("running %s: %w", executable, ctxErr)
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			log.Debug("spawn failed", "args", args, "error", runErr)
			return nil, &InvocationError{Executable: executable, Err: runErr}
		}
		exitCode = exitErr.ExitCode()
	}

	log.Debug("process exited", "args", args, "exit_code", exitCode, "duration", elapsed)

	return &Result{
		CommandResult: CommandResult{
			Success: exitCode == 0,
			Output:  decode(stdout.Bytes()),
			Error:   decode(stderr.Bytes()),
		},
		RunID:    runID,
		ExitCode: exitCode,
	}, nil
}

// cancelled reports whether a failed run ended because of ctx. A child
// that exited non-zero on its own before the kill keeps its exit status,
// even if the deadline passed while Run was returning.
func cancelled(runErr, ctxErr error, killed bool) bool {
	if runErr == nil || ctxErr == nil {
		return false
	}
	var exitErr *exec.ExitError
	return killed || !errors.As(runErr, &exitErr)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) sink(buf *bytes.Buffer) io.Writer {
	if r.MaxOutput > 0 {
		return &limitWriter{buf: buf, limit: r.MaxOutput}
	}
	return buf
}

// decode converts captured bytes to text, replacing invalid UTF-8 with U+FFFD.
func decode(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(out)
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		// Report all bytes as consumed so the copy goroutine does not fail
		// with a short write.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}

package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// RunFirst tries each candidate executable in order with the same args and
// returns the result of the first one that starts. Only a spawn failure
// moves on to the next candidate: a candidate that starts and exits
// non-zero is returned as is.
//
// When no candidate can be started the last *InvocationError is returned,
// annotated with every name that was tried.
func (r *Runner) RunFirst(ctx context.Context, candidates []string, args []string) (*Result, error) {
	if len(candidates) == 0 {
		return nil, &InvocationError{Executable: `""`, Err: errors.New("no candidates")}
	}

	var last *InvocationError
	for _, exe := range candidates {
		res, err := r.Run(ctx, exe, args)
		if err == nil {
			return res, nil
		}
		if !errors.As(err, &last) {
			return nil, err
		}
		r.logger().Debug("candidate unavailable", "executable", exe, "error", err)
	}

	return nil, &InvocationError{
		Executable: strings.Join(candidates, ", "),
		Err:        fmt.Errorf("no candidate could be started (last: %w)", last),
	}
}

package kubernetes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds a single kubectl or kubeseal invocation
const DefaultCommandTimeout = 2 * time.Minute

// Result holds the captured output of an external command
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner abstracts external process execution for testing
type Runner interface {
	// Run executes name with args, feeding stdin (may be nil) to the process.
	// A non-zero exit, a start failure or a timeout returns a *CommandError.
	Run(ctx context.Context, name string, args []string, stdin []byte) (Result, error)
}

// CommandError describes a failed external command
type CommandError struct {
	Command  []string
	Stderr   string
	ExitCode int
	TimedOut bool
	Err      error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command %q", e.CommandLine())
	switch {
	case e.TimedOut:
		b.WriteString(" timed out")
	case e.ExitCode > 0:
		fmt.Fprintf(&b, " exited with code %d", e.ExitCode)
	default:
		fmt.Fprintf(&b, " failed: %v", e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, ": %s", stderr)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// CommandLine returns the command joined with spaces
func (e *CommandError) CommandLine() string {
	return strings.Join(e.Command, " ")
}

// ExecRunner implements Runner with os/exec
type ExecRunner struct {
	timeout time.Duration
}

// NewExecRunner creates an ExecRunner. A zero timeout disables the bound.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{timeout: timeout}
}

// Run executes the command and captures stdout and stderr
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, stdin []byte) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	//#nosec G204 -- binaries come from configuration, args are built by this package
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = 5 * time.Second
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		return result, &CommandError{
			Command:  append([]string{name}, args...),
			Stderr:   stderr.String(),
			ExitCode: result.ExitCode,
			TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
			Err:      err,
		}
	}

	return result, nil
}

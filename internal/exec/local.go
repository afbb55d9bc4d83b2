// Package exec runs local commands with captured output.
package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/elliotbe/gitinit/internal/logger"
)

// Result is the captured outcome of a finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner runs a command in dir. Implementations return an error for a
// non-zero exit.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// Local runs commands on this machine.
type Local struct {
	Log logger.Logger
}

// NewLocal returns a Runner that logs each command at debug level.
func NewLocal(log logger.Logger) *Local {
	if log == nil {
		log = logger.Noop()
	}
	return &Local{Log: log}
}

// Run executes name with args in dir, capturing stdout and stderr. A command
// that exits non-zero returns an ErrExec error carrying its stderr.
func (l *Local) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	log := l.Log
	if log == nil {
		log = logger.Noop()
	}

	line := CommandLine(name, args...)
	log.Debug("run %s (in %s)", line, dir)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if runErr == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		log.Debug("%s exited %d: %s", line, res.ExitCode, strings.TrimSpace(stderr.String()))
		return res, &CommandError{Command: line, ExitCode: res.ExitCode, Stderr: strings.TrimSpace(stderr.String())}
	}

	res.ExitCode = -1
	if stderrors.Is(runErr, exec.ErrNotFound) {
		return res, errors.WrapWithCode(runErr, errors.ErrExec,
			fmt.Sprintf("Couldn't find %s", name),
			fmt.Sprintf("Install %s and make sure it's on your PATH", name))
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, errors.WrapWithCode(runErr, errors.ErrExec,
		fmt.Sprintf("Couldn't run %s", line),
		"Make sure the command exists and is executable")
}

// CommandError reports a command that ran but exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, e.Stderr)
}

// CommandLine renders name and args for logs, quoting args with spaces.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

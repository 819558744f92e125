package mux

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds external commands when the caller's context has no
// deadline of its own. Hook commands run inline in Claude's lifecycle, so a
// wedged subprocess must not stall them.
const DefaultTimeout = 5 * time.Second

// Runner executes external commands. Every subprocess this tool spawns
// (tmux, ps, platform notifiers) goes through a Runner, so tests can
// substitute a fake.
type Runner interface {
	// Run executes name with args and returns its stdout. A non-zero exit
	// yields an error carrying the command's stderr.
	Run(ctx context.Context, name string, args ...string) (string, error)
	// LookPath reports the path of the named executable, as exec.LookPath.
	LookPath(name string) (string, error)
}

// ExecRunner is the os/exec-backed Runner.
type ExecRunner struct {
	// Timeout applies per call when the context carries no deadline.
	Timeout time.Duration
}

// NewRunner returns an ExecRunner with the default timeout.
func NewRunner() *ExecRunner {
	return &ExecRunner{Timeout: DefaultTimeout}
}

// Run executes the command and returns its stdout.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if _, ok := ctx.Deadline(); !ok && r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// LookPath reports whether name is on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

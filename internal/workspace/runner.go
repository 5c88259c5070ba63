package workspace

import (
	"context"
	"os/exec"
	"strings"
)

// command is one external tool invocation. Dir is always explicit; the
// process working directory is never changed.
type command struct {
	name string
	args []string
	dir  string
}

func (c command) line() string {
	return strings.Join(append([]string{c.name}, c.args...), " ")
}

// result captures the outcome of one command, success or failure, so
// fallback strategies can be tried in sequence without nested error
// handling.
type result struct {
	cmd    command
	output string // combined stdout and stderr, trimmed
	err    error
}

func (r result) ok() bool {
	return r.err == nil
}

// runner executes commands. The production implementation shells out;
// tests substitute a fake to assert on invocations.
type runner interface {
	run(ctx context.Context, c command) result
}

type execRunner struct{}

func (execRunner) run(ctx context.Context, c command) result {
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	cmd.Dir = c.dir
	out, err := cmd.CombinedOutput()
	return result{
		cmd:    c,
		output: strings.TrimSpace(string(out)),
		err:    err,
	}
}

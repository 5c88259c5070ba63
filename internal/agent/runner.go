package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Request holds the inputs for one agent run.
type Request struct {
	Prompt  string
	WorkDir string
	Env     []string // extra KEY=VALUE pairs
}

// Runner executes the review agent and returns its stdout.
type Runner interface {
	Run(ctx context.Context, req Request) (string, error)
}

// RunError reports a non-zero agent exit.
type RunError struct {
	ExitCode int
	Stderr   string
}

func (e *RunError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("agent exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("agent exited with code %d: %s", e.ExitCode, e.Stderr)
}

// ExecRunner runs the agent directly on the host, with the workspace as
// its working directory.
type ExecRunner struct {
	Command string
}

func (r *ExecRunner) Run(ctx context.Context, req Request) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", shellLine(r.Command))
	cmd.Dir = req.WorkDir
	cmd.Env = append(os.Environ(), req.Env...)
	cmd.Env = append(cmd.Env, promptEnvVar+"="+req.Prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &RunError{ExitCode: exitErr.ExitCode(), Stderr: tail(stderr.String(), 20)}
		}
		return "", fmt.Errorf("running agent: %w", err)
	}
	return stdout.String(), nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

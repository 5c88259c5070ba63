package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/wardenhq/warden/internal/docker"
)

// containerWorkDir is where the workspace is bind-mounted inside the
// sandbox container.
const containerWorkDir = "/workspace"

// sandbox is the subset of the Docker client the runner needs.
type sandbox interface {
	Ping(ctx context.Context) error
	PullImage(ctx context.Context, image string) error
	CreateContainer(ctx context.Context, cfg docker.ContainerConfig) (string, error)
	StartContainer(ctx context.Context, id string) error
	WaitContainer(ctx context.Context, id string) (int64, error)
	ContainerOutput(ctx context.Context, id string) (stdout, stderr []byte, err error)
	RemoveContainer(ctx context.Context, id string, force bool) error
}

// DockerRunner runs the agent inside a container with the workspace
// bind-mounted at /workspace.
type DockerRunner struct {
	Command string
	Image   string
	client  sandbox
}

// NewDockerRunner creates a runner backed by the local Docker daemon.
func NewDockerRunner(command, image string) (*DockerRunner, error) {
	client, err := docker.NewClient()
	if err != nil {
		return nil, err
	}
	return &DockerRunner{Command: command, Image: image, client: client}, nil
}

func (r *DockerRunner) Run(ctx context.Context, req Request) (string, error) {
	if err := r.client.Ping(ctx); err != nil {
		return "", fmt.Errorf("docker daemon unreachable: %w", err)
	}
	if err := r.client.PullImage(ctx, r.Image); err != nil {
		return "", err
	}

	env := append([]string{}, req.Env...)
	env = append(env, promptEnvVar+"="+req.Prompt)

	id, err := r.client.CreateContainer(ctx, docker.ContainerConfig{
		Name:    fmt.Sprintf("warden-review-%d", time.Now().UnixNano()),
		Image:   r.Image,
		WorkDir: containerWorkDir,
		Mounts: []docker.Mount{
			{Source: req.WorkDir, Target: containerWorkDir},
		},
		Env:        env,
		Labels:     map[string]string{"warden.review": "true"},
		Cmd:        []string{"-c", shellLine(r.Command)},
		Entrypoint: []string{"/bin/sh"},
	})
	if err != nil {
		return "", err
	}
	defer r.client.RemoveContainer(context.WithoutCancel(ctx), id, true)

	if err := r.client.StartContainer(ctx, id); err != nil {
		return "", fmt.Errorf("starting container: %w", err)
	}

	code, err := r.client.WaitContainer(ctx, id)
	if err != nil {
		return "", err
	}

	stdout, stderr, err := r.client.ContainerOutput(ctx, id)
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", &RunError{ExitCode: int(code), Stderr: tail(string(stderr), 20)}
	}
	return string(stdout), nil
}

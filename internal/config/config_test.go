package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_ValidFile(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "warden.yaml")

	configContent := `
providers:
  gitlab:
    host: "gitlab.example.com"

agent:
  command: "claude -p"
  docker: true
  docker_image: "custom/agent:v2"

workspace:
  dir: "/srv/reviews"
  default_branch: "develop"

review:
  post: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Providers.GitLab.Host != "gitlab.example.com" {
		t.Errorf("Providers.GitLab.Host = %q", cfg.Providers.GitLab.Host)
	}
	if cfg.Agent.Command != "claude -p" {
		t.Errorf("Agent.Command = %q", cfg.Agent.Command)
	}
	if !cfg.Agent.Docker {
		t.Error("Agent.Docker = false, want true")
	}
	if cfg.Agent.DockerImage != "custom/agent:v2" {
		t.Errorf("Agent.DockerImage = %q", cfg.Agent.DockerImage)
	}
	if cfg.Workspace.Dir != "/srv/reviews" {
		t.Errorf("Workspace.Dir = %q", cfg.Workspace.Dir)
	}
	if cfg.Workspace.DefaultBranch != "develop" {
		t.Errorf("Workspace.DefaultBranch = %q", cfg.Workspace.DefaultBranch)
	}
	if !cfg.Review.Post {
		t.Error("Review.Post = false, want true")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "warden.yaml")

	if err := os.WriteFile(configPath, []byte("agent: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Agent.DockerImage != "wardenhq/agent:latest" {
		t.Errorf("Agent.DockerImage = %q, want default", cfg.Agent.DockerImage)
	}
	if cfg.Agent.TimeoutMinutes != 30 {
		t.Errorf("Agent.TimeoutMinutes = %d, want 30", cfg.Agent.TimeoutMinutes)
	}
}

func TestLoadConfig_EnvSubstitution(t *testing.T) {
	t.Setenv("WARDEN_TEST_TOKEN", "sekrit")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "warden.yaml")

	configContent := `
providers:
  github:
    token: "${WARDEN_TEST_TOKEN}"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Providers.GitHub.Token != "sekrit" {
		t.Errorf("Providers.GitHub.Token = %q, want substituted value", cfg.Providers.GitHub.Token)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/warden.yaml")
	if err == nil {
		t.Error("Load() expected error for nonexistent file, got nil")
	}
}

func TestLoadOptional_MissingFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOptional("")
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg.Agent.DockerImage != "wardenhq/agent:latest" {
		t.Errorf("Agent.DockerImage = %q, want default", cfg.Agent.DockerImage)
	}
}

func TestLoadOptional_ExplicitMissingPathFails(t *testing.T) {
	_, err := LoadOptional("/nonexistent/warden.yaml")
	if err == nil {
		t.Error("LoadOptional() expected error for explicit missing path")
	}
}

func TestLoadOptional_FindsWardenYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "warden.yaml"), []byte("workspace:\n  keep: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := LoadOptional("")
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if !cfg.Workspace.Keep {
		t.Error("Workspace.Keep = false, want true from warden.yaml")
	}
}

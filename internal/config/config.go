package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the warden configuration file. All fields are
// optional; command-line flags override whatever is set here.
type Config struct {
	Providers ProvidersConfig `yaml:"providers"`
	Agent     AgentConfig     `yaml:"agent"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Review    ReviewConfig    `yaml:"review"`
}

// ProvidersConfig holds git provider configurations.
type ProvidersConfig struct {
	GitHub GitHubConfig `yaml:"github"`
	GitLab GitLabConfig `yaml:"gitlab"`
}

// GitHubConfig holds GitHub-specific settings.
type GitHubConfig struct {
	Token string `yaml:"token"`
}

// GitLabConfig holds GitLab-specific settings.
type GitLabConfig struct {
	Token string `yaml:"token"`
	Host  string `yaml:"host"`
}

// AgentConfig controls how the review agent is invoked.
type AgentConfig struct {
	Command        string `yaml:"command"`
	Docker         bool   `yaml:"docker"`
	DockerImage    string `yaml:"docker_image"`
	TimeoutMinutes int    `yaml:"timeout_minutes"`
}

// WorkspaceConfig holds workspace acquisition defaults.
type WorkspaceConfig struct {
	Dir           string `yaml:"dir"`
	Keep          bool   `yaml:"keep"`
	DefaultBranch string `yaml:"default_branch"`
}

// ReviewConfig holds review output settings.
type ReviewConfig struct {
	Post       bool   `yaml:"post"`
	PromptFile string `yaml:"prompt_file"`
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			DockerImage:    "wardenhq/agent:latest",
			TimeoutMinutes: 30,
		},
	}
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Substitute environment variables
	data = envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(varName)))
	})

	// Start with defaults
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// LoadOptional loads the named config file, or falls back to
// warden.yaml / .warden.yaml in the working directory. A missing file
// yields defaults; an explicit path that does not exist is an error.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	for _, candidate := range []string{"warden.yaml", ".warden.yaml"} {
		cfg, err := Load(candidate)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return DefaultConfig(), nil
}

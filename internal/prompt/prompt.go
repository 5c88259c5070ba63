// Package prompt assembles the instructions given to the review agent.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/wardenhq/warden/internal/ref"
)

//go:embed review.md
var reviewTemplate string

// Inputs holds everything the default review template can reference.
type Inputs struct {
	Ref          ref.Reference
	URL          string
	TargetBranch string
	DiffBaseSHA  string
	// Metadata is a pre-rendered merge request summary (title,
	// description, discussion bullets). Empty when unavailable.
	Metadata string
	Skills   []Skill

	// Custom overrides: inline text wins over a prompt file, which
	// wins over the embedded default.
	Custom     string
	CustomFile string
}

// Build assembles the review prompt.
func Build(in Inputs) (string, error) {
	if in.Custom != "" {
		return in.Custom, nil
	}

	if in.CustomFile != "" {
		data, err := os.ReadFile(in.CustomFile)
		if err != nil {
			return "", fmt.Errorf("reading prompt file: %w", err)
		}
		return string(data), nil
	}

	tmpl, err := template.New("review").Parse(reviewTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing review template: %w", err)
	}

	var sb strings.Builder
	err = tmpl.Execute(&sb, struct {
		URL          string
		TargetBranch string
		DiffBaseSHA  string
		DiffCommand  string
		Metadata     string
		Skills       []Skill
	}{
		URL:          in.URL,
		TargetBranch: in.TargetBranch,
		DiffBaseSHA:  in.DiffBaseSHA,
		DiffCommand:  diffCommand(in.Ref),
		Metadata:     in.Metadata,
		Skills:       in.Skills,
	})
	if err != nil {
		return "", fmt.Errorf("rendering review template: %w", err)
	}
	return sb.String(), nil
}

// diffCommand returns the platform CLI command that lists the change
// under review.
func diffCommand(r ref.Reference) string {
	if r.Platform == ref.GitLab {
		return fmt.Sprintf("glab mr diff %d", r.Number)
	}
	return fmt.Sprintf("gh pr diff %d", r.Number)
}

package prompt

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Skill is a project-specific review guideline loaded from the
// workspace.
type Skill struct {
	Name    string
	Content string
}

// DiscoverSkills loads review guidelines from the workspace, in
// priority order: .cursorrules, then the first of agents.md, agent.md,
// AGENTS.md, then .warden/skills/*.md sorted by name. Files that fail
// to read are logged and skipped.
func DiscoverSkills(workspace string) []Skill {
	var skills []Skill

	if s, ok := readSkill(workspace, ".cursorrules"); ok {
		skills = append(skills, s)
	}

	for _, name := range []string{"agents.md", "agent.md", "AGENTS.md"} {
		if s, ok := readSkill(workspace, name); ok {
			skills = append(skills, s)
			break
		}
	}

	skillsDir := filepath.Join(workspace, ".warden", "skills")
	entries, err := os.ReadDir(skillsDir)
	if err == nil {
		var names []string
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ".md" {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			if s, ok := readSkill(workspace, filepath.Join(".warden", "skills", name)); ok {
				skills = append(skills, s)
			}
		}
	}

	if len(skills) > 0 {
		slog.Info("loaded repository skills", "count", len(skills))
	}
	return skills
}

func readSkill(workspace, rel string) (Skill, bool) {
	path := filepath.Join(workspace, rel)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Skill{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("skipping unreadable skill file", "path", rel, "error", err)
		return Skill{}, false
	}
	return Skill{Name: filepath.ToSlash(rel), Content: string(data)}, true
}

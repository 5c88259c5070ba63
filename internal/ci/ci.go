// Package ci detects working trees already prepared by a CI runner.
package ci

import (
	"log/slog"
	"os"
	"strings"

	"github.com/wardenhq/warden/internal/ref"
)

// Context describes a workspace a CI runner checked out before this
// process started. TargetBranch and DiffBaseSHA are empty when the runner
// did not expose them; DiffBaseSHA is only ever populated on GitLab CI.
type Context struct {
	Dir          string
	TargetBranch string
	DiffBaseSHA  string
}

// LookupFunc reads one environment variable, reporting whether it is set.
// It matches the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Detect inspects the process environment for a GitLab CI or GitHub
// Actions run that already holds the referenced repository checked out.
// It returns nil when no runner-prepared workspace applies.
func Detect(r ref.Reference) *Context {
	return DetectEnv(r, os.LookupEnv)
}

// DetectEnv is Detect with an explicit environment, for tests. It is a
// pure function of the lookup and the reference; it performs no I/O.
func DetectEnv(r ref.Reference, lookup LookupFunc) *Context {
	if ctx := detectGitLabCI(r, lookup); ctx != nil {
		return ctx
	}
	return detectGitHubActions(r, lookup)
}

func detectGitLabCI(r ref.Reference, lookup LookupFunc) *Context {
	if v, _ := lookup("GITLAB_CI"); v != "true" {
		return nil
	}

	projectDir, _ := lookup("CI_PROJECT_DIR")
	projectPath, _ := lookup("CI_PROJECT_PATH") // e.g. "group/subgroup/repo"
	if projectDir == "" || projectPath == "" {
		return nil
	}

	expected := r.FullPath()
	if projectPath != expected && !strings.HasSuffix(projectPath, "/"+expected) {
		return nil
	}

	targetBranch, _ := lookup("CI_MERGE_REQUEST_TARGET_BRANCH_NAME")
	diffBase, _ := lookup("CI_MERGE_REQUEST_DIFF_BASE_SHA")

	slog.Info("detected GitLab CI workspace",
		"dir", projectDir,
		"target_branch", orUnknown(targetBranch),
		"diff_base", orUnknown(shortSHA(diffBase)))

	return &Context{Dir: projectDir, TargetBranch: targetBranch, DiffBaseSHA: diffBase}
}

func detectGitHubActions(r ref.Reference, lookup LookupFunc) *Context {
	if v, _ := lookup("GITHUB_ACTIONS"); v != "true" {
		return nil
	}

	workspaceDir, _ := lookup("GITHUB_WORKSPACE")
	repository, _ := lookup("GITHUB_REPOSITORY") // e.g. "owner/repo"
	if workspaceDir == "" || repository != r.FullPath() {
		return nil
	}

	baseRef, _ := lookup("GITHUB_BASE_REF")

	slog.Info("detected GitHub Actions workspace",
		"dir", workspaceDir,
		"target_branch", orUnknown(baseRef))

	// GitHub Actions never exposes a precomputed diff base.
	return &Context{Dir: workspaceDir, TargetBranch: baseRef}
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

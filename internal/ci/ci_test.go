package ci

import (
	"testing"

	"github.com/wardenhq/warden/internal/ref"
)

func envLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

var gitlabRef = ref.Reference{
	Platform: ref.GitLab, Owner: "team", Repo: "widgets", Number: 7, Host: "gitlab.example.com",
}

var githubRef = ref.Reference{
	Platform: ref.GitHub, Owner: "acme", Repo: "widgets", Number: 42, Host: "github.com",
}

func TestDetectEnv_GitLabCI(t *testing.T) {
	ctx := DetectEnv(gitlabRef, envLookup(map[string]string{
		"GITLAB_CI":                           "true",
		"CI_PROJECT_DIR":                      "/builds/team/widgets",
		"CI_PROJECT_PATH":                     "team/widgets",
		"CI_MERGE_REQUEST_TARGET_BRANCH_NAME": "develop",
		"CI_MERGE_REQUEST_DIFF_BASE_SHA":      "abc123def456",
	}))
	if ctx == nil {
		t.Fatal("DetectEnv() = nil, want context")
	}
	if ctx.Dir != "/builds/team/widgets" {
		t.Errorf("Dir = %q", ctx.Dir)
	}
	if ctx.TargetBranch != "develop" {
		t.Errorf("TargetBranch = %q, want %q", ctx.TargetBranch, "develop")
	}
	if ctx.DiffBaseSHA != "abc123def456" {
		t.Errorf("DiffBaseSHA = %q", ctx.DiffBaseSHA)
	}
}

func TestDetectEnv_GitLabCIProjectPathSuffix(t *testing.T) {
	// Mirrored repos may carry a namespace prefix; a suffix match on
	// "owner/repo" still counts.
	ctx := DetectEnv(gitlabRef, envLookup(map[string]string{
		"GITLAB_CI":       "true",
		"CI_PROJECT_DIR":  "/builds/mirror/team/widgets",
		"CI_PROJECT_PATH": "mirror/team/widgets",
	}))
	if ctx == nil {
		t.Fatal("DetectEnv() = nil, want context")
	}
	if ctx.TargetBranch != "" {
		t.Errorf("TargetBranch = %q, want empty", ctx.TargetBranch)
	}
}

func TestDetectEnv_GitLabCIWrongProject(t *testing.T) {
	ctx := DetectEnv(gitlabRef, envLookup(map[string]string{
		"GITLAB_CI":       "true",
		"CI_PROJECT_DIR":  "/builds/other/thing",
		"CI_PROJECT_PATH": "other/thing",
	}))
	if ctx != nil {
		t.Fatalf("DetectEnv() = %+v, want nil", ctx)
	}
}

func TestDetectEnv_GitLabCINoPartialSuffix(t *testing.T) {
	// "steam/widgets" must not match "team/widgets".
	ctx := DetectEnv(gitlabRef, envLookup(map[string]string{
		"GITLAB_CI":       "true",
		"CI_PROJECT_DIR":  "/builds/x",
		"CI_PROJECT_PATH": "steam/widgets",
	}))
	if ctx != nil {
		t.Fatalf("DetectEnv() = %+v, want nil", ctx)
	}
}

func TestDetectEnv_GitHubActions(t *testing.T) {
	ctx := DetectEnv(githubRef, envLookup(map[string]string{
		"GITHUB_ACTIONS":    "true",
		"GITHUB_WORKSPACE":  "/home/runner/work/widgets/widgets",
		"GITHUB_REPOSITORY": "acme/widgets",
		"GITHUB_BASE_REF":   "main",
	}))
	if ctx == nil {
		t.Fatal("DetectEnv() = nil, want context")
	}
	if ctx.Dir != "/home/runner/work/widgets/widgets" {
		t.Errorf("Dir = %q", ctx.Dir)
	}
	if ctx.TargetBranch != "main" {
		t.Errorf("TargetBranch = %q, want %q", ctx.TargetBranch, "main")
	}
	if ctx.DiffBaseSHA != "" {
		t.Errorf("DiffBaseSHA = %q, want empty on GitHub Actions", ctx.DiffBaseSHA)
	}
}

func TestDetectEnv_GitHubActionsExactRepoMatch(t *testing.T) {
	// Unlike GitLab, GITHUB_REPOSITORY must equal owner/repo exactly.
	ctx := DetectEnv(githubRef, envLookup(map[string]string{
		"GITHUB_ACTIONS":    "true",
		"GITHUB_WORKSPACE":  "/home/runner/work",
		"GITHUB_REPOSITORY": "fork/acme/widgets",
	}))
	if ctx != nil {
		t.Fatalf("DetectEnv() = %+v, want nil", ctx)
	}
}

func TestDetectEnv_NoCIEnvironment(t *testing.T) {
	if ctx := DetectEnv(githubRef, envLookup(nil)); ctx != nil {
		t.Fatalf("DetectEnv() = %+v, want nil", ctx)
	}
}

func TestDetectEnv_MarkerMustBeTrue(t *testing.T) {
	ctx := DetectEnv(gitlabRef, envLookup(map[string]string{
		"GITLAB_CI":       "1",
		"CI_PROJECT_DIR":  "/builds/team/widgets",
		"CI_PROJECT_PATH": "team/widgets",
	}))
	if ctx != nil {
		t.Fatalf("DetectEnv() = %+v, want nil for GITLAB_CI=1", ctx)
	}
}

package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wardenhq/warden/internal/ci"
	"github.com/wardenhq/warden/internal/metrics"
	"github.com/wardenhq/warden/internal/ref"
)

// gitlabAcquirer prepares a workspace through git against a gitlab.com
// or self-hosted instance. glab has no single-command MR checkout, so
// the source branch comes from MR metadata and checkout runs as an
// ordered list of git strategies.
type gitlabAcquirer struct {
	run    runner
	meta   MetadataSource
	ref    ref.Reference
	host   string
	lookup ci.LookupFunc
}

// resolveHost picks the GitLab host: explicit option, then the
// reference URL's host, then the GITLAB_HOST override, then gitlab.com.
func (a *gitlabAcquirer) resolveHost() string {
	if a.host != "" {
		return a.host
	}
	if a.ref.Host != "" {
		return a.ref.Host
	}
	if env, _ := a.lookup("GITLAB_HOST"); env != "" {
		return env
	}
	return "gitlab.com"
}

func (a *gitlabAcquirer) ensureTool(ctx context.Context) error {
	// glab auth status is deliberately not checked: it validates every
	// configured host and fails when an unrelated one has issues. A bad
	// credential surfaces as a clone failure instead.
	if res := a.run.run(ctx, command{name: "glab", args: []string{"version"}}); !res.ok() {
		return &ToolUnavailableError{
			Tool: "GitLab CLI (glab)",
			Hint: "https://gitlab.com/gitlab-org/cli",
			Err:  res.err,
		}
	}

	token := ""
	for _, key := range []string{"GITLAB_TOKEN", "GITLAB_PRIVATE_TOKEN", "CI_JOB_TOKEN"} {
		if v, _ := a.lookup(key); v != "" {
			token = v
			break
		}
	}
	if token == "" {
		slog.Warn("no GitLab token detected; set GITLAB_TOKEN or rely on cached glab credentials",
			"host", a.resolveHost())
	}
	return nil
}

func (a *gitlabAcquirer) clone(ctx context.Context, dir string) error {
	cloneURL := fmt.Sprintf("https://%s/%s.git", a.resolveHost(), a.ref.FullPath())

	slog.Info("cloning repository", "url", cloneURL)
	res := a.run.run(ctx, command{name: "git", args: []string{"clone", cloneURL, dir}})
	if !res.ok() {
		return &CloneError{Ref: a.ref, Command: res.cmd.line(), Output: res.output}
	}
	return nil
}

func (a *gitlabAcquirer) checkout(ctx context.Context, dir string) (string, error) {
	// Unlike GitHub there is no safe default source branch, so a failed
	// metadata query is fatal here.
	mr, err := a.meta.GetMergeRequest(ctx, a.ref.Owner, a.ref.Repo, a.ref.Number)
	if err != nil {
		return "", &MetadataError{Ref: a.ref, Err: err}
	}
	if mr.SourceBranch == "" {
		return "", &MetadataError{
			Ref: a.ref,
			Err: fmt.Errorf("merge request metadata carries no source branch (state %q)", mr.State),
		}
	}
	slog.Info("resolved merge request branches",
		"source_branch", mr.SourceBranch, "target_branch", mr.TargetBranch)

	if res := a.run.run(ctx, command{name: "git", args: []string{"fetch", "--all"}, dir: dir}); !res.ok() {
		slog.Warn("git fetch --all had issues, continuing", "output", res.output)
	}

	// Tracking checkout first; a plain checkout covers the branch
	// already existing locally (e.g. a refreshed persistent workspace).
	strategies := []command{
		{name: "git", args: []string{"checkout", "-b", mr.SourceBranch, "origin/" + mr.SourceBranch}, dir: dir},
		{name: "git", args: []string{"checkout", mr.SourceBranch}, dir: dir},
	}

	var attempts []attempt
	for i, strategy := range strategies {
		res := a.run.run(ctx, strategy)
		if res.ok() {
			if i > 0 {
				metrics.CheckoutFallback()
			}
			slog.Info("checked out merge request branch", "branch", mr.SourceBranch)
			return mr.TargetBranch, nil
		}
		attempts = append(attempts, attempt{Command: res.cmd.line(), Output: res.output})
	}

	return "", &CheckoutError{Branch: mr.SourceBranch, Attempts: attempts}
}

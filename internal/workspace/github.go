package workspace

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/wardenhq/warden/internal/ci"
	"github.com/wardenhq/warden/internal/ref"
)

// githubAcquirer prepares a workspace through the gh CLI, which resolves
// a pull request's head branch itself on checkout.
type githubAcquirer struct {
	run    runner
	meta   MetadataSource
	ref    ref.Reference
	lookup ci.LookupFunc
}

func (a *githubAcquirer) ensureTool(ctx context.Context) error {
	if res := a.run.run(ctx, command{name: "gh", args: []string{"version"}}); !res.ok() {
		return &ToolUnavailableError{
			Tool: "GitHub CLI (gh)",
			Hint: "https://cli.github.com",
			Err:  res.err,
		}
	}
	if token, _ := a.lookup("GITHUB_TOKEN"); token == "" {
		slog.Warn("GITHUB_TOKEN not set; relying on cached gh credentials (gh auth login)")
	}
	return nil
}

func (a *githubAcquirer) clone(ctx context.Context, dir string) error {
	slog.Info("cloning repository", "repo", a.ref.FullPath())
	res := a.run.run(ctx, command{name: "gh", args: []string{"repo", "clone", a.ref.FullPath(), dir}})
	if !res.ok() {
		return &CloneError{Ref: a.ref, Command: res.cmd.line(), Output: res.output}
	}
	return nil
}

func (a *githubAcquirer) checkout(ctx context.Context, dir string) (string, error) {
	number := strconv.Itoa(a.ref.Number)

	slog.Info("checking out pull request", "number", number)
	res := a.run.run(ctx, command{name: "gh", args: []string{"pr", "checkout", number}, dir: dir})
	if !res.ok() {
		return "", &CheckoutError{
			Branch:   "pull request #" + number,
			Attempts: []attempt{{Command: res.cmd.line(), Output: res.output}},
		}
	}

	// Base branch discovery is best-effort: a failed metadata query falls
	// back to the caller's default and ultimately "main".
	mr, err := a.meta.GetMergeRequest(ctx, a.ref.Owner, a.ref.Repo, a.ref.Number)
	if err != nil {
		slog.Warn("could not fetch pull request metadata", "error", err)
		return "", nil
	}
	slog.Info("checked out pull request", "source_branch", mr.SourceBranch, "target_branch", mr.TargetBranch)
	return mr.TargetBranch, nil
}

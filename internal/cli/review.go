package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/agent"
	"github.com/wardenhq/warden/internal/config"
	"github.com/wardenhq/warden/internal/metrics"
	"github.com/wardenhq/warden/internal/prompt"
	"github.com/wardenhq/warden/internal/provider"
	githubprov "github.com/wardenhq/warden/internal/provider/github"
	gitlabprov "github.com/wardenhq/warden/internal/provider/gitlab"
	"github.com/wardenhq/warden/internal/ref"
	"github.com/wardenhq/warden/internal/review"
	"github.com/wardenhq/warden/internal/workspace"
)

var (
	reviewWorkspace  string
	reviewKeep       bool
	reviewPost       bool
	reviewJSON       bool
	reviewPrompt     string
	reviewPromptFile string
	reviewBaseBranch string
	reviewAgent      string
	reviewDocker     bool
	reviewImage      string

	reviewCmd = &cobra.Command{
		Use:   "review <url>",
		Short: "Review a pull or merge request",
		Long: `Resolve a pull or merge request URL into a local workspace,
run the review agent against the checked-out branch, and print the
review as markdown. With --post the review is also left as a comment
on the request.

Inside GitLab CI or GitHub Actions the job's own checkout is adopted
instead of cloning.`,
		Example: `  warden review https://github.com/acme/widgets/pull/42
  warden review https://gitlab.com/team/widgets/-/merge_requests/7 --post
  warden review https://github.com/acme/widgets/pull/42 --workspace ~/reviews/widgets`,
		Args: cobra.ExactArgs(1),
		RunE: runReview,
	}
)

func init() {
	reviewCmd.Flags().StringVar(&reviewWorkspace, "workspace", "", "Persistent workspace directory (default: temp dir, removed after the run)")
	reviewCmd.Flags().BoolVar(&reviewKeep, "keep-workspace", false, "Keep the workspace after the run")
	reviewCmd.Flags().BoolVar(&reviewPost, "post", false, "Post the review as a comment on the request")
	reviewCmd.Flags().BoolVar(&reviewJSON, "json", false, "Print structured JSON instead of markdown")
	reviewCmd.Flags().StringVar(&reviewPrompt, "prompt", "", "Custom inline prompt text (overrides the default and any prompt file)")
	reviewCmd.Flags().StringVar(&reviewPromptFile, "prompt-file", "", "File containing custom prompt instructions")
	reviewCmd.Flags().StringVar(&reviewBaseBranch, "base-branch", "", "Target branch to assume when neither CI nor metadata supplies one")
	reviewCmd.Flags().StringVar(&reviewAgent, "agent", "", "Agent command to run (default: "+agent.DefaultCommand+")")
	reviewCmd.Flags().BoolVar(&reviewDocker, "docker", false, "Run the agent in a Docker sandbox")
	reviewCmd.Flags().StringVar(&reviewImage, "docker-image", "", "Image for the Docker sandbox")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	url := args[0]

	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return err
	}

	r, err := ref.Parse(url)
	if err != nil {
		return err
	}
	slog.Info("reviewing", "request", r.String())

	prov, err := buildProvider(cfg, r)
	if err != nil {
		return err
	}

	wsDir := firstNonEmpty(reviewWorkspace, cfg.Workspace.Dir)
	mgr := workspace.NewManager(prov)
	ws, err := mgr.Acquire(ctx, r, workspace.Options{
		Dir:           wsDir,
		Reuse:         wsDir != "",
		DefaultBranch: firstNonEmpty(reviewBaseBranch, cfg.Workspace.DefaultBranch),
		Host:          cfg.Providers.GitLab.Host,
	})
	if err != nil {
		return err
	}
	keep := reviewKeep || cfg.Workspace.Keep || wsDir != ""
	defer workspace.Release(ws, !keep)

	text, err := prompt.Build(prompt.Inputs{
		Ref:          r,
		URL:          url,
		TargetBranch: ws.TargetBranch,
		DiffBaseSHA:  ws.DiffBaseSHA,
		Metadata:     fetchMetadataSummary(ctx, prov, r),
		Skills:       prompt.DiscoverSkills(ws.Dir),
		Custom:       reviewPrompt,
		CustomFile:   firstNonEmpty(reviewPromptFile, cfg.Review.PromptFile),
	})
	if err != nil {
		return err
	}

	agentCmd := firstNonEmpty(reviewAgent, cfg.Agent.Command, agent.DefaultCommand)
	runner, err := buildRunner(cfg, agentCmd)
	if err != nil {
		return err
	}

	if cfg.Agent.TimeoutMinutes > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Agent.TimeoutMinutes)*time.Minute)
		defer cancel()
	}

	slog.Info("running review agent", "command", agentCmd, "workspace", ws.Dir)
	raw, err := runner.Run(ctx, agent.Request{Prompt: text, WorkDir: ws.Dir})
	if err != nil {
		metrics.ReviewFailed()
		return fmt.Errorf("review agent: %w", err)
	}

	out := review.Parse(raw)
	if err := printReview(cmd, out); err != nil {
		return err
	}

	if reviewPost || cfg.Review.Post {
		body := review.Markdown(out) + attributionFooter(agentCmd)
		if err := prov.PostComment(ctx, r.Owner, r.Repo, r.Number, body); err != nil {
			metrics.ReviewFailed()
			return fmt.Errorf("posting review: %w", err)
		}
		slog.Info("review posted", "request", r.String())
	}

	metrics.ReviewCompleted()
	logCounters()
	return nil
}

// buildProvider constructs the API client for the reference's platform,
// resolving tokens from config and environment. A missing token only
// warns; metadata turns degraded or unavailable depending on platform.
func buildProvider(cfg *config.Config, r ref.Reference) (provider.Provider, error) {
	if r.Platform == ref.GitLab {
		token := firstNonEmpty(
			cfg.Providers.GitLab.Token,
			os.Getenv("GITLAB_TOKEN"),
			os.Getenv("GITLAB_PRIVATE_TOKEN"),
			os.Getenv("CI_JOB_TOKEN"),
		)
		host := firstNonEmpty(cfg.Providers.GitLab.Host, r.Host, os.Getenv("GITLAB_HOST"), "gitlab.com")
		return gitlabprov.New(token, host)
	}

	token := firstNonEmpty(cfg.Providers.GitHub.Token, os.Getenv("GITHUB_TOKEN"))
	return githubprov.New(token), nil
}

func buildRunner(cfg *config.Config, agentCmd string) (agent.Runner, error) {
	if reviewDocker || cfg.Agent.Docker || reviewImage != "" {
		image := firstNonEmpty(reviewImage, cfg.Agent.DockerImage)
		return agent.NewDockerRunner(agentCmd, image)
	}
	return &agent.ExecRunner{Command: agentCmd}, nil
}

// fetchMetadataSummary renders the request's title, state, and recent
// discussion for the prompt. Failures degrade to an empty summary.
func fetchMetadataSummary(ctx context.Context, prov provider.Provider, r ref.Reference) string {
	mr, err := prov.GetMergeRequest(ctx, r.Owner, r.Repo, r.Number)
	if err != nil {
		slog.Warn("could not fetch request metadata for prompt", "error", err)
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", mr.Title)
	fmt.Fprintf(&sb, "Author: %s\n", mr.Author)
	fmt.Fprintf(&sb, "Branches: %s into %s\n", mr.SourceBranch, mr.TargetBranch)
	if mr.Draft {
		sb.WriteString("State: draft\n")
	}
	if desc := strings.TrimSpace(mr.Description); desc != "" {
		sb.WriteString("\n" + desc + "\n")
	}

	comments, err := prov.GetComments(ctx, r.Owner, r.Repo, r.Number)
	if err != nil {
		slog.Warn("could not fetch discussion for prompt", "error", err)
	} else if summary := provider.SummarizeComments(comments, 20); summary != "" {
		sb.WriteString("\nRecent discussion:\n" + summary)
	}
	return sb.String()
}

func printReview(cmd *cobra.Command, out review.Output) error {
	if reviewJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding review: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), review.Markdown(out))
	return nil
}

func attributionFooter(agentCmd string) string {
	return fmt.Sprintf("\n\n---\n\n*Review generated by Warden using `%s`*", agentCmd)
}

func logCounters() {
	m := metrics.Get()
	slog.Debug("run counters",
		"ci_adopted", m.CIAdopted,
		"workspaces_reused", m.WorkspacesReused,
		"clones_started", m.ClonesStarted,
		"checkout_fallbacks", m.CheckoutFallbacks,
		"reviews_completed", m.ReviewsCompleted,
		"reviews_failed", m.ReviewsFailed,
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

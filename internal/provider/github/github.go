// Package github implements provider.Provider over the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v60/github"

	"github.com/wardenhq/warden/internal/provider"
)

// Client implements provider.Provider for GitHub.
type Client struct {
	gh *github.Client
}

// Option configures the GitHub client.
type Option func(*Client)

// WithBaseURL points the client at a custom API endpoint (for testing).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.gh.BaseURL, _ = c.gh.BaseURL.Parse(baseURL + "/")
	}
}

// New creates a GitHub client. An empty token produces an unauthenticated
// client, which works for public repositories subject to rate limits.
func New(token string, opts ...Option) *Client {
	httpClient := http.DefaultClient
	if token != "" {
		httpClient = &http.Client{Transport: &tokenTransport{token: token}}
	}

	c := &Client{gh: github.NewClient(httpClient)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// tokenTransport adds the authorization header to requests.
type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "github"
}

// GetMergeRequest fetches a pull request by number.
func (c *Client) GetMergeRequest(ctx context.Context, owner, repo string, number int) (*provider.MergeRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	return &provider.MergeRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Description:  pr.GetBody(),
		SourceBranch: pr.GetHead().GetRef(),
		TargetBranch: pr.GetBase().GetRef(),
		State:        pr.GetState(),
		Draft:        pr.GetDraft(),
		Author:       pr.GetUser().GetLogin(),
		URL:          pr.GetHTMLURL(),
		CreatedAt:    pr.GetCreatedAt().Time,
		UpdatedAt:    pr.GetUpdatedAt().Time,
	}, nil
}

// GetChangedFiles returns files changed in a pull request.
func (c *Client) GetChangedFiles(ctx context.Context, owner, repo string, number int) ([]provider.ChangedFile, error) {
	files, _, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, nil)
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}

	result := make([]provider.ChangedFile, len(files))
	for i, f := range files {
		result[i] = provider.ChangedFile{
			Path:      f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		}
	}
	return result, nil
}

// GetComments fetches issue comments on a pull request.
func (c *Client) GetComments(ctx context.Context, owner, repo string, number int) ([]provider.Comment, error) {
	comments, _, err := c.gh.Issues.ListComments(ctx, owner, repo, number, nil)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	result := make([]provider.Comment, len(comments))
	for i, cm := range comments {
		result[i] = provider.Comment{
			ID:        int(cm.GetID()),
			Body:      cm.GetBody(),
			Author:    cm.GetUser().GetLogin(),
			CreatedAt: cm.GetCreatedAt().Time,
		}
	}
	return result, nil
}

// PostComment posts a comment on a pull request.
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: &body,
	})
	if err != nil {
		return fmt.Errorf("posting comment on %s/%s#%d: %w", owner, repo, number, err)
	}
	return nil
}

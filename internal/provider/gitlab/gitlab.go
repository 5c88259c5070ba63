// Package gitlab implements provider.Provider over the GitLab API,
// including self-hosted instances.
package gitlab

import (
	"context"
	"fmt"
	"net/url"

	"github.com/xanzy/go-gitlab"

	"github.com/wardenhq/warden/internal/provider"
)

// Client implements provider.Provider for GitLab.
type Client struct {
	gl    *gitlab.Client
	token string
}

// Option configures the GitLab client.
type Option func(*Client)

// WithBaseURL points the client at a custom API endpoint (for testing).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.gl, _ = gitlab.NewClient(c.token, gitlab.WithBaseURL(baseURL+"/api/v4"))
	}
}

// New creates a GitLab client for the given host. A host of "" or
// "gitlab.com" targets gitlab.com; anything else targets a self-hosted
// instance over HTTPS.
func New(token, host string, opts ...Option) (*Client, error) {
	var gl *gitlab.Client
	var err error
	if host == "" || host == "gitlab.com" {
		gl, err = gitlab.NewClient(token)
	} else {
		gl, err = gitlab.NewClient(token, gitlab.WithBaseURL("https://"+host+"/api/v4"))
	}
	if err != nil {
		return nil, fmt.Errorf("creating gitlab client: %w", err)
	}

	c := &Client{gl: gl, token: token}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "gitlab"
}

// projectPath encodes owner/repo (with nested groups) for the GitLab API.
func projectPath(owner, repo string) string {
	return url.PathEscape(owner + "/" + repo)
}

// GetMergeRequest fetches a merge request by IID.
func (c *Client) GetMergeRequest(ctx context.Context, owner, repo string, number int) (*provider.MergeRequest, error) {
	mr, _, err := c.gl.MergeRequests.GetMergeRequest(projectPath(owner, repo), number, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching merge request %s/%s!%d: %w", owner, repo, number, err)
	}

	result := &provider.MergeRequest{
		Number:       mr.IID,
		Title:        mr.Title,
		Description:  mr.Description,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		State:        mr.State,
		Draft:        mr.Draft,
		URL:          mr.WebURL,
	}

	if mr.Author != nil {
		result.Author = mr.Author.Username
	}
	if mr.CreatedAt != nil {
		result.CreatedAt = *mr.CreatedAt
	}
	if mr.UpdatedAt != nil {
		result.UpdatedAt = *mr.UpdatedAt
	}

	return result, nil
}

// GetChangedFiles returns files changed in a merge request.
func (c *Client) GetChangedFiles(ctx context.Context, owner, repo string, number int) ([]provider.ChangedFile, error) {
	changes, _, err := c.gl.MergeRequests.GetMergeRequestChanges(projectPath(owner, repo), number, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching merge request changes: %w", err)
	}

	result := make([]provider.ChangedFile, len(changes.Changes))
	for i, ch := range changes.Changes {
		status := "modified"
		switch {
		case ch.NewFile:
			status = "added"
		case ch.DeletedFile:
			status = "deleted"
		case ch.RenamedFile:
			status = "renamed"
		}
		result[i] = provider.ChangedFile{
			Path:   ch.NewPath,
			Status: status,
		}
	}
	return result, nil
}

// GetComments fetches notes on a merge request. System notes are kept but
// flagged so callers can filter activity noise out of summaries.
func (c *Client) GetComments(ctx context.Context, owner, repo string, number int) ([]provider.Comment, error) {
	notes, _, err := c.gl.Notes.ListMergeRequestNotes(projectPath(owner, repo), number, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	result := make([]provider.Comment, len(notes))
	for i, n := range notes {
		result[i] = provider.Comment{
			ID:     n.ID,
			Body:   n.Body,
			System: n.System,
		}
		if n.Author.Username != "" {
			result[i].Author = n.Author.Username
		}
		if n.CreatedAt != nil {
			result[i].CreatedAt = *n.CreatedAt
		}
	}
	return result, nil
}

// PostComment posts a note on a merge request.
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := c.gl.Notes.CreateMergeRequestNote(projectPath(owner, repo), number, &gitlab.CreateMergeRequestNoteOptions{
		Body: &body,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("posting note on %s/%s!%d: %w", owner, repo, number, err)
	}
	return nil
}

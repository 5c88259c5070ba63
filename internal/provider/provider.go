// Package provider abstracts merge request metadata and comment
// operations over the hosting platforms' APIs.
package provider

import "context"

// Provider defines the API operations the review flow needs from a
// hosting platform. Implementations live in the github and gitlab
// sub-packages.
type Provider interface {
	// Name returns the provider name (github, gitlab).
	Name() string

	// GetMergeRequest fetches a pull/merge request by number.
	GetMergeRequest(ctx context.Context, owner, repo string, number int) (*MergeRequest, error)

	// GetChangedFiles returns files changed in a merge request.
	GetChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error)

	// GetComments fetches discussion comments on a merge request.
	GetComments(ctx context.Context, owner, repo string, number int) ([]Comment, error)

	// PostComment posts a comment on a merge request.
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
}

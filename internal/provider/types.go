package provider

import (
	"fmt"
	"strings"
	"time"
)

// MergeRequest represents a merge request/pull request.
type MergeRequest struct {
	Number       int // PR number (GitHub) or MR IID (GitLab)
	Title        string
	Description  string
	SourceBranch string
	TargetBranch string
	State        string // open, closed, merged
	Draft        bool
	Author       string
	URL          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Comment represents a discussion comment on a merge request. System is
// true for machine-generated activity notes (GitLab), which the comment
// summary skips.
type Comment struct {
	ID        int
	Body      string
	Author    string
	System    bool
	CreatedAt time.Time
}

// ChangedFile represents a file changed in a merge request.
type ChangedFile struct {
	Path      string
	Status    string // added, modified, deleted, renamed
	Additions int
	Deletions int
}

// SummarizeComments renders up to max human-authored comments as a
// markdown bullet list for embedding in the review prompt. System notes
// and empty bodies are skipped. Returns "" when nothing remains.
func SummarizeComments(comments []Comment, max int) string {
	var lines []string
	for _, c := range comments {
		if c.System {
			continue
		}
		body := strings.TrimSpace(c.Body)
		if body == "" {
			continue
		}

		author := c.Author
		if author == "" {
			author = "unknown"
		}
		created := ""
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.Format("2006-01-02 15:04")
		}

		lines = append(lines, fmt.Sprintf("- %s @%s:\n%s", created, author, body))
		if len(lines) >= max {
			break
		}
	}
	return strings.Join(lines, "\n")
}

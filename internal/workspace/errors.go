package workspace

import (
	"fmt"
	"strings"

	"github.com/wardenhq/warden/internal/ref"
)

// ToolUnavailableError reports a required hosting CLI that could not be
// invoked. Hint carries installation guidance.
type ToolUnavailableError struct {
	Tool string
	Hint string
	Err  error
}

func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("%s is not available (install it: %s): %v", e.Tool, e.Hint, e.Err)
}

func (e *ToolUnavailableError) Unwrap() error { return e.Err }

// CloneError reports a failed repository clone, carrying the exact
// command and the tool's captured diagnostics.
type CloneError struct {
	Ref     ref.Reference
	Command string
	Output  string
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("failed to clone %s: command %q failed: %s", e.Ref.FullPath(), e.Command, e.Output)
}

// MetadataError reports a failed merge request metadata query. It is
// fatal on GitLab, where no safe default source branch exists; the
// GitHub path logs and falls back instead of returning it.
type MetadataError struct {
	Ref ref.Reference
	Err error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("failed to fetch metadata for %s: %v", e.Ref, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// attempt is one checkout strategy that was tried and failed.
type attempt struct {
	Command string
	Output  string
}

// CheckoutError reports that every checkout strategy for a branch
// failed, naming each attempted command and its output.
type CheckoutError struct {
	Branch   string
	Attempts []attempt
}

func (e *CheckoutError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to check out branch %q; tried:", e.Branch)
	for i, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %d. %s: %s", i+1, a.Command, a.Output)
	}
	return b.String()
}

// ConflictError reports an explicit workspace directory that already
// holds a different repository than the one requested. Proceeding would
// mean cloning into a non-empty tree, so acquisition refuses instead.
type ConflictError struct {
	Dir    string
	Want   string
	Remote string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("workspace %s contains a different repository (remote %q, want %s)", e.Dir, e.Remote, e.Want)
}

// GitError reports a failed git plumbing command (fetch, remote
// inspection) outside the clone/checkout paths.
type GitError struct {
	Command string
	Output  string
}

func (e *GitError) Error() string {
	return fmt.Sprintf("command %q failed: %s", e.Command, e.Output)
}

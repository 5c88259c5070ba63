// Package ref parses pull/merge request URLs into canonical references.
package ref

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// Platform identifies the hosting service a reference lives on.
type Platform string

const (
	GitHub Platform = "github"
	GitLab Platform = "gitlab"
)

// Reference is the parsed, canonical identity of a pull or merge request.
// It is immutable once constructed.
type Reference struct {
	Platform Platform
	Owner    string // may contain '/' for nested GitLab groups
	Repo     string
	Number   int
	Host     string
}

// FullPath returns the "owner/repo" path, with nested groups intact.
func (r Reference) FullPath() string {
	return r.Owner + "/" + r.Repo
}

func (r Reference) String() string {
	return fmt.Sprintf("%s!%d (%s)", r.FullPath(), r.Number, r.Platform)
}

// InvalidReferenceError reports a URL that does not match the chosen
// platform's pull/merge request grammar.
type InvalidReferenceError struct {
	URL    string
	Reason string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid pull/merge request URL %q: %s", e.URL, e.Reason)
}

// DetectPlatform classifies a URL as GitHub or GitLab. GitLab markers are
// checked first so self-hosted instances with arbitrary hostnames still
// classify correctly; an unrecognizable URL defaults to GitHub. Detection
// never fails: misclassification surfaces later as a structural parse error.
func DetectPlatform(rawURL string) Platform {
	u, err := url.Parse(rawURL)
	hostname := ""
	if err == nil {
		hostname = u.Hostname()
	}

	switch {
	case strings.Contains(rawURL, "/-/merge_requests/") || strings.Contains(hostname, "gitlab"):
		return GitLab
	case strings.Contains(rawURL, "/pull/") || strings.Contains(hostname, "github"):
		return GitHub
	default:
		slog.Debug("unknown platform for URL, assuming github", "url", rawURL)
		return GitHub
	}
}

// Parse resolves a pull/merge request URL into a Reference.
//
// Accepted shapes:
//
//	https://<host>/<owner>/<repo>/pull/<number>                          (GitHub)
//	https://<host>/<owner>[/<subgroup>...]/<repo>/-/merge_requests/<n>   (GitLab)
func Parse(rawURL string) (Reference, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Reference{}, &InvalidReferenceError{URL: rawURL, Reason: err.Error()}
	}

	segments := splitPath(u.Path)
	platform := DetectPlatform(rawURL)

	switch platform {
	case GitLab:
		return parseGitLab(rawURL, u.Host, segments)
	default:
		return parseGitHub(rawURL, u.Host, segments)
	}
}

// parseGitHub expects path segments [owner, repo, "pull", number, ...].
func parseGitHub(rawURL, host string, segments []string) (Reference, error) {
	if len(segments) < 4 || segments[2] != "pull" {
		return Reference{}, &InvalidReferenceError{
			URL:    rawURL,
			Reason: "expected https://<host>/<owner>/<repo>/pull/<number>",
		}
	}

	number, err := parseNumber(segments[3])
	if err != nil {
		return Reference{}, &InvalidReferenceError{URL: rawURL, Reason: err.Error()}
	}

	return Reference{
		Platform: GitHub,
		Owner:    segments[0],
		Repo:     segments[1],
		Number:   number,
		Host:     host,
	}, nil
}

// parseGitLab locates the merge_requests segment and works backwards: the
// segment before it must be the literal "-", the one before that is the
// repo, and everything earlier is the (possibly nested) owner path.
func parseGitLab(rawURL, host string, segments []string) (Reference, error) {
	mrIndex := -1
	for i, s := range segments {
		if s == "merge_requests" {
			mrIndex = i
			break
		}
	}

	if mrIndex < 2 || mrIndex+1 >= len(segments) {
		return Reference{}, &InvalidReferenceError{
			URL:    rawURL,
			Reason: "expected https://<host>/<owner>[/<subgroup>...]/<repo>/-/merge_requests/<number>",
		}
	}
	if segments[mrIndex-1] != "-" {
		return Reference{}, &InvalidReferenceError{
			URL:    rawURL,
			Reason: "missing '/-/' separator before merge_requests",
		}
	}

	number, err := parseNumber(segments[mrIndex+1])
	if err != nil {
		return Reference{}, &InvalidReferenceError{URL: rawURL, Reason: err.Error()}
	}

	repo := segments[mrIndex-2]
	owner := strings.Join(segments[:mrIndex-2], "/")
	if owner == "" {
		return Reference{}, &InvalidReferenceError{
			URL:    rawURL,
			Reason: "missing owner segment before repository name",
		}
	}

	return Reference{
		Platform: GitLab,
		Owner:    owner,
		Repo:     repo,
		Number:   number,
		Host:     host,
	}, nil
}

func parseNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("request number %q is not a positive integer", s)
	}
	return n, nil
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

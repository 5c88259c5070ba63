// Package workspace materializes a checked-out source tree for a pull or
// merge request reference.
//
// Acquisition picks one of three paths, in strict order: adopt a
// CI-provided working tree, refresh and reuse an explicit persistent
// directory, or clone fresh into an ephemeral (or explicit) directory.
// External tools (gh, glab, git) always run with an explicit working
// directory; the process working directory is never changed.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wardenhq/warden/internal/ci"
	"github.com/wardenhq/warden/internal/metrics"
	"github.com/wardenhq/warden/internal/provider"
	"github.com/wardenhq/warden/internal/ref"
)

// origin classifies which acquisition path produced a workspace and
// therefore which guarantees hold.
type origin int

const (
	originCIProvided origin = iota // runner-prepared tree, no clone or checkout ran
	originReused                   // persistent dir refreshed via fetch
	originFreshClone               // new clone, ephemeral or adopted dir
)

// Workspace is a working tree checked out to the reference's source
// revision, plus the branch metadata needed to compute a correct diff.
// DiffBaseSHA is populated only when the workspace was provided by
// GitLab CI.
type Workspace struct {
	Dir          string
	TargetBranch string // never empty
	DiffBaseSHA  string

	origin    origin
	ephemeral bool
}

// CIProvided reports whether the working tree was prepared by a CI
// runner rather than by this process.
func (w *Workspace) CIProvided() bool {
	return w.origin == originCIProvided
}

// MetadataSource answers merge request metadata queries during
// acquisition. The platform API clients in internal/provider satisfy it.
type MetadataSource interface {
	GetMergeRequest(ctx context.Context, owner, repo string, number int) (*provider.MergeRequest, error)
}

// Options controls workspace acquisition.
type Options struct {
	// Dir is an explicit persistent workspace directory. Empty means a
	// fresh ephemeral directory is created and deleted after the run.
	Dir string

	// Reuse permits refreshing Dir via fetch when it already holds the
	// referenced repository.
	Reuse bool

	// DefaultBranch is the target branch to assume when neither CI nor
	// metadata supplies one. The final fallback is "main".
	DefaultBranch string

	// Host overrides the GitLab host from the reference URL.
	Host string
}

// acquirer is the platform-specific half of acquisition.
type acquirer interface {
	// ensureTool verifies the hosting CLI is reachable and warns about
	// missing credentials.
	ensureTool(ctx context.Context) error

	// clone clones the full repository into dir.
	clone(ctx context.Context, dir string) error

	// checkout checks out the reference's source revision inside dir and
	// returns the target branch name, or "" when metadata did not
	// supply one.
	checkout(ctx context.Context, dir string) (string, error)
}

// Manager acquires and releases workspaces for one review invocation.
// It assumes exclusive access to any persistent directory it is given;
// concurrent acquisitions against the same directory are the caller's
// problem to prevent.
type Manager struct {
	run    runner
	meta   MetadataSource
	lookup ci.LookupFunc
}

// NewManager creates a Manager backed by the real CLIs and process
// environment. meta must match the reference's platform.
func NewManager(meta MetadataSource) *Manager {
	return &Manager{
		run:    execRunner{},
		meta:   meta,
		lookup: os.LookupEnv,
	}
}

// Acquire resolves a reference into a ready workspace. On success the
// working tree's HEAD equals the reference's source revision.
func (m *Manager) Acquire(ctx context.Context, r ref.Reference, opts Options) (*Workspace, error) {
	// CI runners are trusted to have checked out the correct revision
	// already; adopt their tree verbatim and touch nothing.
	if env := ci.DetectEnv(r, m.lookup); env != nil {
		metrics.CIAdopted()
		ws := &Workspace{
			Dir:          env.Dir,
			TargetBranch: firstNonEmpty(env.TargetBranch, opts.DefaultBranch, "main"),
			DiffBaseSHA:  env.DiffBaseSHA,
			origin:       originCIProvided,
		}
		slog.Info("adopting CI-provided workspace", "dir", ws.Dir, "target_branch", ws.TargetBranch)
		return ws, nil
	}

	acq := m.acquirerFor(r, opts)
	if err := acq.ensureTool(ctx); err != nil {
		return nil, err
	}

	ws := &Workspace{origin: originFreshClone}
	if opts.Dir == "" {
		dir, err := os.MkdirTemp("", "warden-review-")
		if err != nil {
			return nil, fmt.Errorf("creating temporary workspace: %w", err)
		}
		ws.Dir = dir
		ws.ephemeral = true
		slog.Info("created temporary workspace", "dir", dir)
	} else {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating workspace directory %s: %w", opts.Dir, err)
		}
		ws.Dir = opts.Dir

		if remote, ok := m.remoteOrigin(ctx, opts.Dir); ok {
			if !strings.Contains(remote, r.FullPath()) {
				return nil, &ConflictError{Dir: opts.Dir, Want: r.FullPath(), Remote: remote}
			}
			if !opts.Reuse {
				return nil, fmt.Errorf("workspace %s already holds %s; pass the reuse flag or choose another directory", opts.Dir, r.FullPath())
			}
			ws.origin = originReused
		}
	}

	if ws.origin == originReused {
		metrics.WorkspaceReused()
		slog.Info("reusing existing workspace", "dir", ws.Dir)
		if res := m.run.run(ctx, command{name: "git", args: []string{"fetch", "origin"}, dir: ws.Dir}); !res.ok() {
			return nil, &GitError{Command: res.cmd.line(), Output: res.output}
		}
	} else {
		metrics.CloneStarted()
		if err := acq.clone(ctx, ws.Dir); err != nil {
			m.discard(ws)
			return nil, err
		}
	}

	target, err := acq.checkout(ctx, ws.Dir)
	if err != nil {
		m.discard(ws)
		return nil, err
	}

	ws.TargetBranch = firstNonEmpty(target, opts.DefaultBranch, "main")
	slog.Info("workspace ready",
		"dir", ws.Dir,
		"target_branch", ws.TargetBranch,
		"diff_base", orNA(ws.DiffBaseSHA))
	return ws, nil
}

func (m *Manager) acquirerFor(r ref.Reference, opts Options) acquirer {
	if r.Platform == ref.GitLab {
		return &gitlabAcquirer{run: m.run, meta: m.meta, ref: r, host: opts.Host, lookup: m.lookup}
	}
	return &githubAcquirer{run: m.run, meta: m.meta, ref: r, lookup: m.lookup}
}

// remoteOrigin reports the origin remote URL of an existing working tree
// in dir, or ok=false when dir holds no repository.
func (m *Manager) remoteOrigin(ctx context.Context, dir string) (string, bool) {
	if info, err := os.Stat(filepath.Join(dir, ".git")); err != nil || !info.IsDir() {
		return "", false
	}
	res := m.run.run(ctx, command{name: "git", args: []string{"remote", "get-url", "origin"}, dir: dir})
	if !res.ok() {
		return "", false
	}
	return res.output, true
}

// discard removes a partially prepared ephemeral directory after a
// failed acquisition. Explicit directories are left for inspection.
func (m *Manager) discard(ws *Workspace) {
	if !ws.ephemeral {
		return
	}
	if err := os.RemoveAll(ws.Dir); err != nil {
		slog.Warn("failed to remove partial workspace", "dir", ws.Dir, "error", err)
	}
}

// Release deletes an ephemeral workspace after use. It is a no-op when
// remove is false or when the workspace was CI-provided, and any removal
// failure is logged rather than propagated.
func Release(ws *Workspace, remove bool) {
	if ws == nil {
		return
	}
	if !remove || ws.origin == originCIProvided {
		slog.Debug("keeping workspace", "dir", ws.Dir)
		return
	}
	if err := os.RemoveAll(ws.Dir); err != nil {
		slog.Warn("failed to clean up workspace", "dir", ws.Dir, "error", err)
		return
	}
	slog.Info("cleaned up workspace", "dir", ws.Dir)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

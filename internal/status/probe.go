// pattern: Imperative Shell

package status

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"agentmon/internal/gitx"
	"agentmon/internal/logging"
	"agentmon/internal/repo"
)

// Status holds the derived facts for one worktree. Each field is computed
// independently; a nil field means that probe failed or had nothing to say.
type Status struct {
	LastChange *time.Time
	LastCommit *gitx.Commit
	Dirty      bool
	PR         *PullRequest
}

// Probe computes worktree status. Every external call runs under the
// configured timeout and degrades to a logged warning on failure.
type Probe struct {
	git        *gitx.Runner
	gh         GHExecutor
	logger     *logging.ScopedLogger
	timeout    time.Duration
	maxEntries int
}

// NewProbe creates a Probe. gh may be nil to use the real gh CLI.
func NewProbe(git *gitx.Runner, gh GHExecutor, logger *logging.ScopedLogger, timeout time.Duration, maxEntries int) *Probe {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if gh == nil {
		gh = DefaultGHExecutor
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 50000
	}
	return &Probe{git: git, gh: gh, logger: logger, timeout: timeout, maxEntries: maxEntries}
}

// Collect computes all four facts for a worktree. A failure in one fact
// never blocks the others.
func (p *Probe) Collect(ctx context.Context, wt *repo.Worktree) Status {
	var st Status

	st.LastChange = LastChange(wt.Path, p.maxEntries)

	git := p.git.In(wt.Path)

	commit, err := withTimeout(ctx, p.timeout, git.LastCommit)
	if err != nil {
		p.logger.Warn("reading last commit", "path", wt.Path, "error", err)
	} else {
		st.LastCommit = commit
	}

	dirty, err := withTimeout(ctx, p.timeout, git.IsDirty)
	if err != nil {
		p.logger.Warn("reading dirty state", "path", wt.Path, "error", err)
	} else {
		st.Dirty = dirty
	}

	if wt.Branch != "" {
		pr, err := p.lookupPR(ctx, wt.Path, wt.Branch)
		if err != nil {
			// Missing gh, no auth, no PR: all render as "no PR".
			p.logger.Debug("pull request lookup", "branch", wt.Branch, "error", err)
		} else {
			st.PR = pr
		}
	}

	return st
}

func withTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(ctx)
}

// LastChange walks the worktree and returns the newest file modification
// time, skipping .git. The walk stops after maxEntries to keep scan latency
// bounded on huge trees. Returns nil when nothing was visited.
func LastChange(root string, maxEntries int) *time.Time {
	var newest time.Time
	visited := 0

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}

		visited++
		if visited > maxEntries {
			return fs.SkipAll
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if mt := info.ModTime(); mt.After(newest) {
			newest = mt
		}
		return nil
	})

	if newest.IsZero() {
		return nil
	}
	return &newest
}

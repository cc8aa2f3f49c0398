// pattern: Imperative Shell

package repo

import (
	"context"
	"path/filepath"
)

// Worktrees returns the ordered worktree list for a repository: the root
// first (its current branch), then every linked worktree. Entries resolving
// back to the root are dropped to avoid double-counting, and linked
// worktrees with a detached HEAD are skipped. A listing failure degrades to
// the root-only view.
func (l *Locator) Worktrees(ctx context.Context, r *Repository) []*Worktree {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	git := l.git.In(r.Root)

	branch, err := git.CurrentBranch(ctx)
	if err != nil {
		l.logger.Warn("reading current branch", "repo", r.Name, "error", err)
	}

	worktrees := []*Worktree{{
		Path:   r.Root,
		Branch: branch,
		Repo:   r,
		IsMain: true,
	}}

	entries, err := git.WorktreeList(ctx)
	if err != nil {
		l.logger.Warn("listing worktrees", "repo", r.Name, "error", err)
		return worktrees
	}

	seen := map[string]bool{r.Root: true}
	for _, entry := range entries {
		resolved, err := filepath.EvalSymlinks(entry.Path)
		if err != nil {
			resolved = entry.Path
		}
		if seen[resolved] {
			continue
		}
		seen[resolved] = true

		if entry.Detached || entry.Branch == "" {
			l.logger.Debug("skipping detached worktree", "repo", r.Name, "path", resolved)
			continue
		}

		worktrees = append(worktrees, &Worktree{
			Path:   resolved,
			Branch: entry.Branch,
			Repo:   r,
		})
	}

	return worktrees
}

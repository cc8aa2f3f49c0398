// pattern: Imperative Shell

package lifecycle

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Remove deletes the worktree bound to branch, then offers to delete the
// branch. A dirty worktree blocks removal; this tool never forces at the
// git layer.
func (m *Manager) Remove(ctx context.Context, branch string) error {
	if err := ValidateBranchName(branch); err != nil {
		return err
	}

	unlock, err := m.acquireLock()
	if err != nil {
		return err
	}
	defer unlock()

	path, err := m.findWorktree(ctx, branch)
	if err != nil {
		return err
	}
	if path == m.repoRoot {
		return fmt.Errorf("branch %q is checked out in the main worktree; refusing to remove it", branch)
	}

	dirty, err := m.git.In(path).IsDirty(ctx)
	if err != nil {
		return fmt.Errorf("checking worktree state: %w", err)
	}
	if dirty {
		return fmt.Errorf("worktree %s has uncommitted changes; commit, stash, or discard them first", path)
	}

	if m.dryf("remove worktree %s", path) {
		m.dryf("prompt to delete branch %q", branch)
		return nil
	}

	if err := m.git.WorktreeRemove(ctx, path, false); err != nil {
		return err
	}
	m.printf("Removed worktree %s", path)
	m.logger.Info("worktree removed", "branch", branch, "path", path)

	if m.confirm(fmt.Sprintf("Delete branch %q? [y/N] ", branch)) {
		if err := m.git.DeleteBranch(ctx, branch); err != nil {
			m.warnf("branch not deleted: %v", err)
			return nil
		}
		m.printf("Deleted branch %q", branch)
	}

	return nil
}

// findWorktree locates the worktree checked out on branch.
func (m *Manager) findWorktree(ctx context.Context, branch string) (string, error) {
	entries, err := m.git.WorktreeList(ctx)
	if err != nil {
		return "", fmt.Errorf("listing worktrees: %w", err)
	}
	for _, entry := range entries {
		if entry.Branch == branch {
			resolved, err := filepath.EvalSymlinks(entry.Path)
			if err != nil {
				return entry.Path, nil
			}
			return resolved, nil
		}
	}
	return "", fmt.Errorf("no worktree found for branch %q", branch)
}

func (m *Manager) confirm(prompt string) bool {
	fmt.Fprint(m.stdout, prompt)
	reader := bufio.NewReader(m.stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

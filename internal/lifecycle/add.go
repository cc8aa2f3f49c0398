// pattern: Imperative Shell

package lifecycle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Add creates a worktree on a new branch. Validation order:
// branch name → branch collision → local clean → remote sync → target path.
// Nothing mutates until every check has passed; the worktree add itself is
// the first mutating step.
func (m *Manager) Add(ctx context.Context, branch string, tool Tool) error {
	if err := ValidateBranchName(branch); err != nil {
		return err
	}

	unlock, err := m.acquireLock()
	if err != nil {
		return err
	}
	defer unlock()

	exists, err := m.git.BranchExists(ctx, branch)
	if err != nil {
		return fmt.Errorf("checking branch: %w", err)
	}
	if exists {
		return fmt.Errorf("branch %q already exists; this tool only creates new branches", branch)
	}

	dirty, err := m.git.IsDirty(ctx)
	if err != nil {
		return fmt.Errorf("checking working tree: %w", err)
	}
	if dirty {
		return fmt.Errorf("you have uncommitted changes; commit or stash them first")
	}

	if err := m.checkRemoteSync(ctx); err != nil {
		return err
	}

	target := TargetPath(m.repoRoot, branch)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("target directory %s already exists; remove it or pick another branch name", target)
	}

	if !m.dryf("create worktree %s on new branch %q", target, branch) {
		if err := m.git.WorktreeAdd(ctx, target, branch); err != nil {
			return err
		}
		m.printf("Created worktree %s on branch %q", target, branch)
		m.logger.Info("worktree created", "branch", branch, "path", target)
	}

	m.copyConfigFiles(target)
	m.runSetupHook(ctx, target)

	if tool != ToolNone {
		if m.dryf("launch %s in %s", tool, target) {
			return nil
		}
		if err := m.launch(ctx, target, tool); err != nil {
			m.warnf("%s exited with error: %v", tool, err)
		}
	}

	return nil
}

// checkRemoteSync fails when the local branch is behind its upstream.
// Missing upstream and being ahead are warnings only.
func (m *Manager) checkRemoteSync(ctx context.Context) error {
	if !m.git.HasUpstream(ctx) {
		m.warnf("no upstream configured; skipping remote sync check")
		return nil
	}

	if err := m.git.Fetch(ctx); err != nil {
		m.warnf("fetch failed, comparing against last-known remote state: %v", err)
	}

	ahead, behind, err := m.git.AheadBehind(ctx)
	if err != nil {
		m.warnf("could not compare with upstream: %v", err)
		return nil
	}
	if behind > 0 {
		return fmt.Errorf("local branch is %d commit(s) behind its upstream; pull first", behind)
	}
	if ahead > 0 {
		m.warnf("local branch is %d commit(s) ahead of its upstream", ahead)
	}
	return nil
}

// copyConfigFiles copies each allow-listed untracked config file from the
// repository root into the new worktree. Missing sources are skipped;
// copy failures are warnings.
func (m *Manager) copyConfigFiles(target string) {
	for _, rel := range m.cfg.CopyFiles {
		src := filepath.Join(m.repoRoot, rel)
		info, err := os.Stat(src)
		if err != nil || info.IsDir() {
			continue
		}

		if m.dryf("copy %s into the new worktree", rel) {
			continue
		}

		dst := filepath.Join(target, rel)
		if err := copyFile(src, dst, info.Mode()); err != nil {
			m.warnf("copying %s: %v", rel, err)
			continue
		}
		m.printf("Copied %s", rel)
	}
}

// runSetupHook runs the configured hook script if the new worktree carries
// one. A failing hook is surfaced but never rolls back the worktree.
func (m *Manager) runSetupHook(ctx context.Context, target string) {
	hook := filepath.Join(target, m.cfg.SetupHook)
	if m.dryRun {
		// The hook lives inside the not-yet-created worktree; check the
		// repository root copy for an accurate preview.
		hook = filepath.Join(m.repoRoot, m.cfg.SetupHook)
	}
	if info, err := os.Stat(hook); err != nil || info.IsDir() {
		return
	}

	if m.dryf("run setup hook %s", m.cfg.SetupHook) {
		return
	}

	m.printf("Running setup hook %s", m.cfg.SetupHook)
	if err := m.runHook(ctx, target, hook); err != nil {
		m.warnf("setup hook failed (worktree kept): %v", err)
		m.logger.Warn("setup hook failed", "hook", hook, "error", err)
	}
}

func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

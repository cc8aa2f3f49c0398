// pattern: Imperative Shell

package gitx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// CommandExecutor is a function that executes a command and returns its
// trimmed stdout. Injected so tests never shell out.
type CommandExecutor func(ctx context.Context, dir string, name string, args ...string) (string, error)

// DefaultExecutor runs commands with os/exec, folding stderr into the error.
func DefaultExecutor(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", err
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Runner wraps git CLI operations for a single working directory.
type Runner struct {
	dir  string
	exec CommandExecutor
}

// NewRunner creates a Runner executing git in dir.
func NewRunner(dir string) *Runner {
	return &Runner{dir: dir, exec: DefaultExecutor}
}

// NewRunnerWithExecutor creates a Runner with a custom executor for testing.
func NewRunnerWithExecutor(dir string, exec CommandExecutor) *Runner {
	return &Runner{dir: dir, exec: exec}
}

// Dir returns the working directory git runs in.
func (r *Runner) Dir() string {
	return r.dir
}

// In returns a Runner for a different directory sharing the same executor.
func (r *Runner) In(dir string) *Runner {
	return &Runner{dir: dir, exec: r.exec}
}

func (r *Runner) git(ctx context.Context, args ...string) (string, error) {
	return r.exec(ctx, r.dir, "git", args...)
}

// TopLevel returns the repository root for the working directory.
func (r *Runner) TopLevel(ctx context.Context) (string, error) {
	return r.git(ctx, "rev-parse", "--show-toplevel")
}

// CurrentBranch returns the checked-out branch, or "" for a detached HEAD.
func (r *Runner) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		// symbolic-ref exits 1 on detached HEAD; report that as no branch.
		return "", nil
	}
	return out, nil
}

// RemoteURL returns the URL of the named remote, or "" if it does not exist.
func (r *Runner) RemoteURL(ctx context.Context, remote string) (string, error) {
	out, err := r.git(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", nil
	}
	return out, nil
}

// IsDirty reports whether the worktree has staged, unstaged, or untracked
// changes.
func (r *Runner) IsDirty(ctx context.Context) (bool, error) {
	out, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return out != "", nil
}

// Commit is the most recent commit on HEAD.
type Commit struct {
	Time time.Time
	Hash string // abbreviated
}

// LastCommit returns HEAD's commit time and short hash. A branch with no
// commits yet yields (nil, nil).
func (r *Runner) LastCommit(ctx context.Context) (*Commit, error) {
	out, err := r.git(ctx, "log", "-1", "--format=%ct %h")
	if err != nil {
		// No commits yet (unborn branch) is not an error.
		return nil, nil
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return nil, fmt.Errorf("unexpected git log output %q", out)
	}
	sec, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing commit time %q: %w", fields[0], err)
	}
	return &Commit{Time: time.Unix(sec, 0), Hash: fields[1]}, nil
}

// BranchExists reports whether a local branch with the given name exists.
func (r *Runner) BranchExists(ctx context.Context, branch string) (bool, error) {
	_, err := r.git(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err == nil {
		return true, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return false, nil
}

// HasUpstream reports whether HEAD has an upstream tracking branch.
func (r *Runner) HasUpstream(ctx context.Context) bool {
	_, err := r.git(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	return err == nil
}

// Fetch updates remote tracking refs. Failures are left to the caller to
// classify (offline operation is common).
func (r *Runner) Fetch(ctx context.Context) error {
	_, err := r.git(ctx, "fetch", "--quiet")
	return err
}

// AheadBehind returns how many commits HEAD is ahead of and behind its
// upstream.
func (r *Runner) AheadBehind(ctx context.Context) (ahead, behind int, err error) {
	out, err := r.git(ctx, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return 0, 0, fmt.Errorf("git rev-list: %w", err)
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	ahead, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	behind, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

// WorktreeAdd creates a worktree at path on a new branch.
func (r *Runner) WorktreeAdd(ctx context.Context, path, branch string) error {
	if _, err := r.git(ctx, "worktree", "add", path, "-b", branch); err != nil {
		return fmt.Errorf("git worktree add: %w", err)
	}
	return nil
}

// WorktreeRemove removes the worktree at path. Without force, git refuses
// when the worktree is dirty.
func (r *Runner) WorktreeRemove(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if _, err := r.git(ctx, args...); err != nil {
		return fmt.Errorf("git worktree remove: %w", err)
	}
	return nil
}

// DeleteBranch deletes a local branch. Without force, git refuses when the
// branch is unmerged.
func (r *Runner) DeleteBranch(ctx context.Context, branch string) error {
	if _, err := r.git(ctx, "branch", "-d", branch); err != nil {
		return fmt.Errorf("git branch -d: %w", err)
	}
	return nil
}

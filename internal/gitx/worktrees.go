// pattern: Functional Core

package gitx

import (
	"bufio"
	"context"
	"strings"
)

// WorktreeEntry is one record from `git worktree list --porcelain`.
type WorktreeEntry struct {
	Path     string
	Head     string
	Branch   string // empty when detached
	Detached bool
}

// WorktreeList runs `git worktree list --porcelain` and parses the output.
// The first entry is always the main worktree. A parse oddity mid-stream
// yields the entries parsed so far.
func (r *Runner) WorktreeList(ctx context.Context) ([]WorktreeEntry, error) {
	out, err := r.git(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return ParseWorktreeList(out), nil
}

// ParseWorktreeList parses porcelain worktree output. Format:
//
//	worktree /path/to/worktree
//	HEAD abc123
//	branch refs/heads/branch-name
//	<blank line>
//
// Detached worktrees carry a "detached" line instead of "branch".
func ParseWorktreeList(output string) []WorktreeEntry {
	var entries []WorktreeEntry
	var current *WorktreeEntry

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &WorktreeEntry{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "HEAD ") && current != nil:
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch ") && current != nil:
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "detached" && current != nil:
			current.Detached = true
		case line == "":
			flush()
		}
	}
	flush()

	return entries
}

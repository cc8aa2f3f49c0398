// pattern: Functional Core

package agent

import (
	"strings"

	"agentmon/internal/repo"
)

// Assignment binds an agent process to the worktree containing its working
// directory. Recomputed fresh every scan cycle.
type Assignment struct {
	Process  Process
	Worktree *repo.Worktree
}

// Correlate assigns each process with a resolvable working directory to the
// most specific (longest-path) worktree containing it. Agents matching no
// worktree are dropped; the caller surfaces the count.
func Correlate(procs []Process, worktrees []*repo.Worktree) []Assignment {
	var assignments []Assignment

	for _, proc := range procs {
		if proc.WorkDir == "" {
			continue
		}

		var best *repo.Worktree
		for _, wt := range worktrees {
			if !pathContains(wt.Path, proc.WorkDir) {
				continue
			}
			if best == nil || len(wt.Path) > len(best.Path) {
				best = wt
			}
		}

		if best != nil {
			assignments = append(assignments, Assignment{Process: proc, Worktree: best})
		}
	}

	return assignments
}

// pathContains reports whether child equals parent or lives under it.
// Matching is segment-aware: /a/bc is not under /a/b.
func pathContains(parent, child string) bool {
	parent = strings.TrimRight(parent, "/")
	if parent == "" {
		return false
	}
	if child == parent {
		return true
	}
	return strings.HasPrefix(child, parent+"/")
}

// pattern: Imperative Shell

package dashboard

import (
	"context"
	"sort"
	"time"

	"agentmon/internal/agent"
	"agentmon/internal/logging"
	"agentmon/internal/repo"
	"agentmon/internal/status"
)

// Row is one worktree with its status and the agents working in it.
type Row struct {
	Worktree *repo.Worktree
	Status   status.Status
	Agents   []agent.Process
}

// Snapshot is the full dashboard state for one scan cycle. Rows are grouped
// by repository with each repository's main worktree first.
type Snapshot struct {
	Rows          []Row
	DroppedAgents int // unclassified plus uncorrelated processes
	TakenAt       time.Time
}

// Collector runs one full scan: repositories, worktrees, per-worktree
// status, processes, and correlation. Sequential by design; every external
// call carries its own timeout, so one slow probe degrades a single cell,
// not the loop.
type Collector struct {
	locator *repo.Locator
	probe   *status.Probe
	scanner *agent.Scanner
	logger  *logging.ScopedLogger
}

func NewCollector(locator *repo.Locator, probe *status.Probe, scanner *agent.Scanner, logger *logging.ScopedLogger) *Collector {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Collector{locator: locator, probe: probe, scanner: scanner, logger: logger}
}

// Collect rebuilds the snapshot from scratch. No state survives between
// cycles.
func (c *Collector) Collect(ctx context.Context) Snapshot {
	snap := Snapshot{TakenAt: time.Now()}

	var worktrees []*repo.Worktree
	for _, r := range c.locator.Locate(ctx) {
		worktrees = append(worktrees, c.locator.Worktrees(ctx, r)...)
	}

	procs, dropped := c.scanner.Scan()
	assignments := agent.Correlate(procs, worktrees)
	snap.DroppedAgents = dropped + len(procs) - len(assignments)

	byWorktree := make(map[string][]agent.Process)
	for _, a := range assignments {
		byWorktree[a.Worktree.Path] = append(byWorktree[a.Worktree.Path], a.Process)
	}

	for _, wt := range worktrees {
		agents := byWorktree[wt.Path]
		sort.Slice(agents, func(i, j int) bool { return agents[i].PID < agents[j].PID })
		snap.Rows = append(snap.Rows, Row{
			Worktree: wt,
			Status:   c.probe.Collect(ctx, wt),
			Agents:   agents,
		})
	}

	c.logger.Debug("scan complete",
		"worktrees", len(worktrees),
		"agents", len(assignments),
		"dropped", snap.DroppedAgents,
		"elapsed", time.Since(snap.TakenAt).String())

	return snap
}

// WorktreePaths returns the paths of all worktrees in the snapshot, for the
// filesystem watcher.
func (s Snapshot) WorktreePaths() []string {
	paths := make([]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		paths = append(paths, row.Worktree.Path)
	}
	return paths
}

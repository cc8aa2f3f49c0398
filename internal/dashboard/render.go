// pattern: Functional Core

package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"agentmon/internal/agent"
)

var columns = []string{"REPOSITORY", "BRANCH", "CHANGED", "COMMIT", "", "PR", "CHECKS", "AGENTS"}

// RenderTable renders the snapshot as an aligned table. Column widths are
// computed on ANSI-stripped cell text so styling never breaks alignment.
func RenderTable(snap Snapshot, st *Styles, now time.Time) string {
	if len(snap.Rows) == 0 {
		return "no repositories found under the configured scan roots\n"
	}

	var grid [][]string
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = st.HeaderStyle().Render(col)
	}
	grid = append(grid, header)

	var lastRepo string
	for _, row := range snap.Rows {
		cells := make([]string, len(columns))

		repoName := row.Worktree.Repo.Name
		if repoName != lastRepo {
			cells[0] = st.RepoStyle().Render(repoName)
			lastRepo = repoName
		}

		cells[1] = orDash(row.Worktree.Branch)
		cells[2] = FormatAgo(row.Status.LastChange, now)

		if c := row.Status.LastCommit; c != nil {
			cells[3] = fmt.Sprintf("%s %s", FormatAgo(&c.Time, now), c.Hash)
		} else {
			cells[3] = "never"
		}

		if row.Status.Dirty {
			cells[4] = st.DirtyStyle().Render("✗")
		} else {
			cells[4] = st.CleanStyle().Render("✓")
		}

		if pr := row.Status.PR; pr != nil {
			cells[5] = fmt.Sprintf("#%d %s", pr.Number, pr.State)
			cells[6] = st.ChecksStyle(pr.Checks).Render(pr.Checks.String())
		} else {
			cells[5] = "no PR"
			cells[6] = "—"
		}

		if len(row.Agents) > 0 {
			cells[7] = st.AgentStyle().Render(AgentLine(row.Agents[0], now))
		} else {
			cells[7] = "—"
		}
		grid = append(grid, cells)

		// Additional agents stack as continuation lines within the cell.
		if len(row.Agents) > 1 {
			for _, proc := range row.Agents[1:] {
				cont := make([]string, len(columns))
				cont[7] = st.AgentStyle().Render(AgentLine(proc, now))
				grid = append(grid, cont)
			}
		}
	}

	widths := make([]int, len(columns))
	for _, cells := range grid {
		for i, cell := range cells {
			if w := ansi.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	for _, cells := range grid {
		for i, cell := range cells {
			sb.WriteString(cell)
			if i < len(cells)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-ansi.StringWidth(cell)+2))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// AgentLine formats one agent as "[kind] PID, uptime, memory".
func AgentLine(p agent.Process, now time.Time) string {
	return fmt.Sprintf("[%s] %d %s %s", p.Kind, p.PID, FormatUptime(p.StartedAt, now), FormatBytes(p.ResidentBytes))
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"agentmon/internal/agent"
	"agentmon/internal/gitx"
	"agentmon/internal/repo"
	"agentmon/internal/status"
)

func TestRenderTable_Empty(t *testing.T) {
	out := RenderTable(Snapshot{}, NewStyles("mocha"), time.Now())
	if !strings.Contains(out, "no repositories found") {
		t.Errorf("empty snapshot rendered %q", out)
	}
}

func TestRenderTable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repoA := &repo.Repository{Name: "acme/api", Root: "/w/api"}

	mainChange := now.Add(-2 * time.Hour)
	commitTime := now.Add(-3 * 24 * time.Hour)

	snap := Snapshot{
		Rows: []Row{
			{
				Worktree: &repo.Worktree{Path: "/w/api", Branch: "main", Repo: repoA, IsMain: true},
				Status: status.Status{
					LastChange: &mainChange,
					LastCommit: &gitx.Commit{Time: commitTime, Hash: "ab12cd3"},
				},
			},
			{
				Worktree: &repo.Worktree{Path: "/w/api-fix", Branch: "fix/login", Repo: repoA},
				Status: status.Status{
					Dirty: true,
					PR:    &status.PullRequest{Number: 17, State: "open", Checks: status.ChecksFailing},
				},
				Agents: []agent.Process{
					{PID: 100, Kind: "claude", StartedAt: now.Add(-2 * time.Hour), ResidentBytes: 1536 * 1024},
					{PID: 200, Kind: "gemini", StartedAt: now.Add(-10 * time.Minute), ResidentBytes: 2048},
				},
			},
		},
		DroppedAgents: 1,
		TakenAt:       now,
	}

	out := ansi.Strip(RenderTable(snap, NewStyles("mocha"), now))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Header, two worktree rows, one continuation row for the second agent.
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}

	if !strings.HasPrefix(lines[0], "REPOSITORY") || !strings.Contains(lines[0], "AGENTS") {
		t.Errorf("header line = %q", lines[0])
	}

	if !strings.HasPrefix(lines[1], "acme/api") {
		t.Errorf("main row missing repo name: %q", lines[1])
	}
	for _, want := range []string{"main", "2h ago", "3d ago ab12cd3", "✓", "no PR", "—"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("main row missing %q: %q", want, lines[1])
		}
	}

	// Repo name appears only on the first row of the group.
	if strings.Contains(lines[2], "acme/api") {
		t.Errorf("repo name repeated on second row: %q", lines[2])
	}
	for _, want := range []string{"fix/login", "✗", "#17 open", "failing", "[claude] 100 up 2h 1.5MB"} {
		if !strings.Contains(lines[2], want) {
			t.Errorf("fix row missing %q: %q", want, lines[2])
		}
	}

	if !strings.Contains(lines[3], "[gemini] 200 up 10m 2KB") {
		t.Errorf("continuation row = %q", lines[3])
	}
	if strings.Contains(lines[3], "fix/login") {
		t.Errorf("continuation row repeats worktree cells: %q", lines[3])
	}
}

func TestAgentLine_UnknownStart(t *testing.T) {
	now := time.Now()
	got := AgentLine(agent.Process{PID: 42, Kind: "aider"}, now)
	if got != "[aider] 42 up ? 0B" {
		t.Errorf("AgentLine = %q", got)
	}
}

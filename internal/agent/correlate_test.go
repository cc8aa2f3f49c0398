package agent

import (
	"testing"

	"agentmon/internal/repo"
)

func TestCorrelate(t *testing.T) {
	main := &repo.Worktree{Path: "/home/u/proj", Branch: "main", IsMain: true}
	feature := &repo.Worktree{Path: "/home/u/proj-feature", Branch: "feature"}
	worktrees := []*repo.Worktree{main, feature}

	procs := []Process{
		{PID: 1, Kind: "claude", WorkDir: "/home/u/proj/internal/api"},
		{PID: 2, Kind: "gemini", WorkDir: "/home/u/proj-feature"},
		{PID: 3, Kind: "claude", WorkDir: "/tmp/elsewhere"},
		{PID: 4, Kind: "aider", WorkDir: ""},
	}

	got := Correlate(procs, worktrees)
	if len(got) != 2 {
		t.Fatalf("got %d assignments, want 2: %+v", len(got), got)
	}
	if got[0].Process.PID != 1 || got[0].Worktree != main {
		t.Errorf("pid 1 assigned to %v", got[0].Worktree)
	}
	if got[1].Process.PID != 2 || got[1].Worktree != feature {
		t.Errorf("pid 2 assigned to %v", got[1].Worktree)
	}
}

func TestCorrelate_MostSpecificWins(t *testing.T) {
	outer := &repo.Worktree{Path: "/w/a"}
	inner := &repo.Worktree{Path: "/w/a/b"}

	got := Correlate(
		[]Process{{PID: 9, WorkDir: "/w/a/b/src"}},
		[]*repo.Worktree{outer, inner},
	)
	if len(got) != 1 || got[0].Worktree != inner {
		t.Fatalf("want inner worktree, got %+v", got)
	}
}

func TestPathContains(t *testing.T) {
	tests := []struct {
		parent, child string
		want          bool
	}{
		{"/a/b", "/a/b", true},
		{"/a/b", "/a/b/c", true},
		{"/a/b/", "/a/b/c", true},
		{"/a/b", "/a/bc", false},
		{"/a/b", "/a", false},
		{"", "/a", false},
	}
	for _, tt := range tests {
		if got := pathContains(tt.parent, tt.child); got != tt.want {
			t.Errorf("pathContains(%q, %q) = %v, want %v", tt.parent, tt.child, got, tt.want)
		}
	}
}

package gitx

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

// fakeExecutor returns canned output keyed by the joined git arguments.
func fakeExecutor(responses map[string]string) CommandExecutor {
	return func(_ context.Context, _ string, _ string, args ...string) (string, error) {
		key := strings.Join(args, " ")
		for prefix, out := range responses {
			if strings.HasPrefix(key, prefix) {
				if strings.HasPrefix(out, "ERR:") {
					return "", fmt.Errorf("%s", strings.TrimPrefix(out, "ERR:"))
				}
				return out, nil
			}
		}
		return "", fmt.Errorf("unexpected git %s", key)
	}
}

func TestLastCommit(t *testing.T) {
	r := NewRunnerWithExecutor("/repo", fakeExecutor(map[string]string{
		"log -1": "1700000000 abc1234",
	}))

	commit, err := r.LastCommit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if commit == nil {
		t.Fatal("expected a commit")
	}
	if commit.Hash != "abc1234" {
		t.Errorf("hash = %q, want abc1234", commit.Hash)
	}
	if !commit.Time.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("time = %v, want %v", commit.Time, time.Unix(1700000000, 0))
	}
}

func TestLastCommit_NoCommits(t *testing.T) {
	r := NewRunnerWithExecutor("/repo", fakeExecutor(map[string]string{
		"log -1": "ERR:fatal: your current branch does not have any commits yet",
	}))

	commit, err := r.LastCommit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if commit != nil {
		t.Errorf("expected nil commit for unborn branch, got %+v", commit)
	}
}

func TestIsDirty(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"clean", "", false},
		{"untracked only", "?? notes.txt", true},
		{"staged", "M  main.go", true},
		{"unstaged", " M main.go", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunnerWithExecutor("/repo", fakeExecutor(map[string]string{
				"status --porcelain": tt.output,
			}))
			dirty, err := r.IsDirty(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dirty != tt.want {
				t.Errorf("IsDirty = %v, want %v", dirty, tt.want)
			}
		})
	}
}

func TestAheadBehind(t *testing.T) {
	r := NewRunnerWithExecutor("/repo", fakeExecutor(map[string]string{
		"rev-list --left-right --count": "2\t5",
	}))

	ahead, behind, err := r.AheadBehind(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ahead != 2 || behind != 5 {
		t.Errorf("ahead/behind = %d/%d, want 2/5", ahead, behind)
	}
}

func TestCurrentBranch_Detached(t *testing.T) {
	r := NewRunnerWithExecutor("/repo", fakeExecutor(map[string]string{
		"symbolic-ref": "ERR:exit status 1",
	}))

	branch, err := r.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if branch != "" {
		t.Errorf("expected empty branch for detached HEAD, got %q", branch)
	}
}

package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"agentmon/internal/gitx"
)

func TestParseRemoteName(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"git@github.com:acme/widgets.git", "acme/widgets", true},
		{"git@github.com:acme/widgets", "acme/widgets", true},
		{"https://github.com/acme/widgets.git", "acme/widgets", true},
		{"https://github.com/acme/widgets", "acme/widgets", true},
		{"https://gitlab.example.com/team/tool.git", "team/tool", true},
		{"ssh://git@github.com/acme/widgets.git", "acme/widgets", true},
		{"", "", false},
		{"/local/path/repo", "", false},
		{"not a url", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := ParseRemoteName(tt.url)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseRemoteName(%q) = %q/%v, want %q/%v", tt.url, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// stubGit answers remote/branch/worktree queries from static maps keyed by
// the directory git runs in.
func stubGit(remotes map[string]string, branches map[string]string, worktreeLists map[string]string) *gitx.Runner {
	exec := func(_ context.Context, dir string, _ string, args ...string) (string, error) {
		key := strings.Join(args, " ")
		switch {
		case strings.HasPrefix(key, "remote get-url"):
			if url, ok := remotes[dir]; ok {
				return url, nil
			}
			return "", fmt.Errorf("no such remote")
		case strings.HasPrefix(key, "symbolic-ref"):
			if b, ok := branches[dir]; ok && b != "" {
				return b, nil
			}
			return "", fmt.Errorf("detached")
		case strings.HasPrefix(key, "worktree list"):
			if out, ok := worktreeLists[dir]; ok {
				return out, nil
			}
			return "", fmt.Errorf("worktree list failed")
		}
		return "", fmt.Errorf("unexpected git %s", key)
	}
	return gitx.NewRunnerWithExecutor("", exec)
}

func TestLocate_DeduplicatesAcrossRoots(t *testing.T) {
	tmp := t.TempDir()

	rootA := filepath.Join(tmp, "workspaces")
	rootB := filepath.Join(tmp, "repos")
	if err := os.MkdirAll(filepath.Join(rootA, "widgets", ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(rootB, 0755); err != nil {
		t.Fatal(err)
	}
	// Same repository reachable from a second root via symlink.
	if err := os.Symlink(filepath.Join(rootA, "widgets"), filepath.Join(rootB, "widgets")); err != nil {
		t.Fatal(err)
	}

	git := stubGit(nil, nil, nil)
	locator := NewLocator([]string{rootA, rootB}, git, time.Second, nil)

	repos := locator.Locate(context.Background())
	if len(repos) != 1 {
		t.Fatalf("expected 1 repository, got %d", len(repos))
	}
	if repos[0].Name != "widgets" {
		t.Errorf("expected basename fallback name, got %q", repos[0].Name)
	}
}

func TestLocate_RemoteDisplayName(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "workspaces")
	repoDir := filepath.Join(root, "checkout")
	if err := os.MkdirAll(filepath.Join(repoDir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	resolved, err := filepath.EvalSymlinks(repoDir)
	if err != nil {
		t.Fatal(err)
	}

	git := stubGit(map[string]string{resolved: "git@github.com:acme/widgets.git"}, nil, nil)
	locator := NewLocator([]string{root}, git, time.Second, nil)

	repos := locator.Locate(context.Background())
	if len(repos) != 1 {
		t.Fatalf("expected 1 repository, got %d", len(repos))
	}
	if repos[0].Name != "acme/widgets" {
		t.Errorf("expected acme/widgets, got %q", repos[0].Name)
	}
}

func TestLocate_SkipsNonRepos(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "workspaces")
	if err := os.MkdirAll(filepath.Join(root, "not-a-repo"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "repo", ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	locator := NewLocator([]string{root, filepath.Join(tmp, "missing")}, stubGit(nil, nil, nil), time.Second, nil)

	repos := locator.Locate(context.Background())
	if len(repos) != 1 {
		t.Fatalf("expected 1 repository, got %d", len(repos))
	}
}

func TestWorktrees_RootFirstNoDuplicates(t *testing.T) {
	tmp := t.TempDir()
	rootDir := filepath.Join(tmp, "project")
	linked := filepath.Join(tmp, "project-feature-x")
	for _, dir := range []string{rootDir, linked} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	// Locate hands out canonical roots; mirror that here.
	rootDir, err := filepath.EvalSymlinks(rootDir)
	if err != nil {
		t.Fatal(err)
	}
	linked, err = filepath.EvalSymlinks(linked)
	if err != nil {
		t.Fatal(err)
	}

	list := fmt.Sprintf(`worktree %s
HEAD abc123
branch refs/heads/main

worktree %s
HEAD def456
branch refs/heads/feature/x

worktree %s
HEAD 999999
detached

`, rootDir, linked, filepath.Join(tmp, "project-detached"))

	git := stubGit(nil,
		map[string]string{rootDir: "main"},
		map[string]string{rootDir: list})
	locator := NewLocator(nil, git, time.Second, nil)

	r := &Repository{Name: "project", Root: rootDir}
	worktrees := locator.Worktrees(context.Background(), r)

	if len(worktrees) != 2 {
		t.Fatalf("expected 2 worktrees (root + linked, detached skipped), got %d", len(worktrees))
	}
	if !worktrees[0].IsMain || worktrees[0].Path != rootDir {
		t.Errorf("expected root worktree first, got %+v", worktrees[0])
	}
	if worktrees[0].Branch != "main" {
		t.Errorf("root branch = %q, want main", worktrees[0].Branch)
	}
	if worktrees[1].Path != linked || worktrees[1].Branch != "feature/x" {
		t.Errorf("linked worktree = %+v", worktrees[1])
	}

	seen := map[string]bool{}
	for _, wt := range worktrees {
		if seen[wt.Path] {
			t.Errorf("duplicate worktree path %s", wt.Path)
		}
		seen[wt.Path] = true
	}
}

func TestWorktrees_ListFailureDegradesToRoot(t *testing.T) {
	tmp := t.TempDir()
	rootDir := filepath.Join(tmp, "project")
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		t.Fatal(err)
	}

	git := stubGit(nil, map[string]string{rootDir: "main"}, nil)
	locator := NewLocator(nil, git, time.Second, nil)

	worktrees := locator.Worktrees(context.Background(), &Repository{Name: "project", Root: rootDir})
	if len(worktrees) != 1 {
		t.Fatalf("expected root-only view, got %d entries", len(worktrees))
	}
}

// pattern: Imperative Shell

package repo

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"agentmon/internal/gitx"
	"agentmon/internal/logging"
)

// Locator discovers git repositories under an ordered list of scan roots.
type Locator struct {
	roots   []string
	git     *gitx.Runner
	timeout time.Duration
	logger  *logging.ScopedLogger
}

// NewLocator creates a Locator. The git runner's executor is reused for all
// per-repository git calls, each run under the given timeout; the runner's
// own directory is irrelevant here.
func NewLocator(roots []string, git *gitx.Runner, timeout time.Duration, logger *logging.ScopedLogger) *Locator {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Locator{roots: roots, git: git, timeout: timeout, logger: logger}
}

// Locate scans each root one level deep for directories containing a .git
// entry. Repositories reachable from more than one root are reported once,
// keyed by symlink-resolved path. Unreadable roots are skipped; a repository
// that fails to open is logged and skipped.
func (l *Locator) Locate(ctx context.Context) []*Repository {
	var repos []*Repository
	seen := make(map[string]bool)

	for _, root := range l.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			path := filepath.Join(root, entry.Name())

			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				resolved = path
			}
			if seen[resolved] {
				continue
			}
			seen[resolved] = true

			// Linked worktrees have a .git file rather than a directory,
			// so a plain stat covers both.
			if _, err := os.Stat(filepath.Join(resolved, ".git")); err != nil {
				continue
			}

			name, err := l.displayName(ctx, resolved)
			if err != nil {
				l.logger.Warn("skipping unreadable repository", "path", resolved, "error", err)
				continue
			}

			repos = append(repos, &Repository{Name: name, Root: resolved})
		}
	}

	return repos
}

// displayName derives "owner/repo" from the origin remote, falling back to
// the directory basename. Absence of a remote is not an error.
func (l *Locator) displayName(ctx context.Context, root string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	url, err := l.git.In(root).RemoteURL(ctx, "origin")
	if err != nil {
		return "", err
	}
	if name, ok := ParseRemoteName(url); ok {
		return name, nil
	}
	return filepath.Base(root), nil
}

var (
	// git@host:owner/repo.git
	sshRemoteRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+:([\w.-]+)/([\w.-]+?)(?:\.git)?$`)
	// https://host/owner/repo.git
	httpRemoteRe = regexp.MustCompile(`^(?:https?|ssh)://(?:[\w.-]+@)?[\w.-]+(?::\d+)?/([\w.-]+)/([\w.-]+?)(?:\.git)?/?$`)
)

// ParseRemoteName extracts "owner/repo" from an SSH or HTTPS remote URL.
func ParseRemoteName(url string) (string, bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", false
	}
	for _, re := range []*regexp.Regexp{sshRemoteRe, httpRemoteRe} {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1] + "/" + m[2], true
		}
	}
	return "", false
}

// pattern: Functional Core

package repo

// Repository is a git repository found under one of the scan roots.
type Repository struct {
	Name string // "owner/repo" from the origin remote, else the directory basename
	Root string // canonical (symlink-resolved) root path
}

// Worktree is one working directory of a repository. The main worktree is
// the repository root itself.
type Worktree struct {
	Path   string
	Branch string // empty when the root HEAD is detached
	Repo   *Repository
	IsMain bool
}

// pattern: Imperative Shell

package lifecycle

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofrs/flock"

	"agentmon/internal/config"
	"agentmon/internal/gitx"
	"agentmon/internal/logging"
)

// Tool is an optional program launched inside a freshly created worktree.
type Tool string

const (
	ToolNone   Tool = ""
	ToolBash   Tool = "bash"
	ToolClaude Tool = "claude"
	ToolGemini Tool = "gemini"
)

// Launcher runs an interactive tool in a directory with inherited stdio.
// Injected so tests never spawn real programs.
type Launcher func(ctx context.Context, dir string, tool Tool) error

// DefaultLauncher execs the tool with the invoking terminal attached.
func DefaultLauncher(ctx context.Context, dir string, tool Tool) error {
	cmd := exec.CommandContext(ctx, string(tool))
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// HookRunner executes the setup hook script in the new worktree.
type HookRunner func(ctx context.Context, dir, script string) error

// DefaultHookRunner runs the script synchronously from the worktree root.
func DefaultHookRunner(ctx context.Context, dir, script string) error {
	cmd := exec.CommandContext(ctx, script)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Manager validates and executes worktree creation and removal for the
// repository containing the invocation directory. Every precondition is
// checked before the first mutating step runs.
type Manager struct {
	git      *gitx.Runner
	repoRoot string
	cfg      config.Config
	lockPath string
	dryRun   bool

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	launch  Launcher
	runHook HookRunner
	logger  *logging.ScopedLogger
}

// Options configures a Manager beyond its defaults.
type Options struct {
	DryRun  bool
	Stdout  io.Writer
	Stderr  io.Writer
	Stdin   io.Reader
	Launch  Launcher
	RunHook HookRunner
	Logger  *logging.ScopedLogger
}

// NewManager resolves the repository root from the invocation directory and
// builds a Manager. dataDir hosts the mutation lock file.
func NewManager(ctx context.Context, git *gitx.Runner, cfg config.Config, dataDir string, opts Options) (*Manager, error) {
	root, err := git.TopLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("not inside a git repository")
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	m := &Manager{
		git:      git.In(root),
		repoRoot: root,
		cfg:      cfg,
		lockPath: filepath.Join(dataDir, "worktree.lock"),
		dryRun:   opts.DryRun,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
		stdin:    opts.Stdin,
		launch:   opts.Launch,
		runHook:  opts.RunHook,
		logger:   opts.Logger,
	}
	if m.stdout == nil {
		m.stdout = os.Stdout
	}
	if m.stderr == nil {
		m.stderr = os.Stderr
	}
	if m.stdin == nil {
		m.stdin = os.Stdin
	}
	if m.launch == nil {
		m.launch = DefaultLauncher
	}
	if m.runHook == nil {
		m.runHook = DefaultHookRunner
	}
	if m.logger == nil {
		m.logger = logging.NopLogger()
	}
	return m, nil
}

// validBranchRe matches acceptable branch names: alphanumeric start, then
// alphanumerics, dots, underscores, slashes, hyphens.
var validBranchRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._/-]*$`)

// ValidateBranchName rejects names git or the target-path derivation would
// choke on.
func ValidateBranchName(name string) error {
	if name == "" {
		return fmt.Errorf("branch name cannot be empty")
	}
	if len(name) > 100 {
		return fmt.Errorf("branch name too long (max 100 characters)")
	}
	if !validBranchRe.MatchString(name) {
		return fmt.Errorf("invalid branch name %q: must start with alphanumeric, may contain a-z A-Z 0-9 . _ / -", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("branch name cannot contain '..'")
	}
	return nil
}

// TargetPath returns where the worktree for a branch would live: a sibling
// of the repository root named after the branch, slashes replaced by
// hyphens.
func TargetPath(repoRoot, branch string) string {
	name := filepath.Base(repoRoot) + "-" + strings.ReplaceAll(branch, "/", "-")
	return filepath.Join(filepath.Dir(repoRoot), name)
}

// acquireLock takes the exclusive mutation lock so concurrent invocations
// cannot interleave git mutations. Returns an unlock func.
func (m *Manager) acquireLock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(m.lockPath), 0755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	fl := flock.New(m.lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring worktree lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another worktree operation is in progress")
	}
	return func() { _ = fl.Unlock() }, nil
}

func (m *Manager) warnf(format string, args ...any) {
	fmt.Fprintf(m.stderr, "warning: "+format+"\n", args...)
}

func (m *Manager) printf(format string, args ...any) {
	fmt.Fprintf(m.stdout, format+"\n", args...)
}

// dryf prints a dry-run preview line and reports whether the real action
// should be skipped.
func (m *Manager) dryf(format string, args ...any) bool {
	if m.dryRun {
		fmt.Fprintf(m.stdout, "[dry-run] would "+format+"\n", args...)
	}
	return m.dryRun
}

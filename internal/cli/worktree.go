// pattern: Imperative Shell
package cli

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"agentmon/internal/gitx"
	"agentmon/internal/lifecycle"
)

// RegisterWorktreeCommands registers the worktree command group.
func RegisterWorktreeCommands(group *Group, configDir string) {
	group.AddCommand(&Command{
		Name:    "add",
		Summary: "Create a worktree on a new branch",
		Usage:   "Usage: agentmon worktree add [--dry-run] [--bash|--claude|--gemini] <branch>",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("worktree add", flag.ContinueOnError)
			dryRun := fs.Bool("dry-run", false, "print what would happen without mutating anything")
			useBash := fs.Bool("bash", false, "launch a shell in the new worktree")
			useClaude := fs.Bool("claude", false, "launch claude in the new worktree")
			useGemini := fs.Bool("gemini", false, "launch gemini in the new worktree")
			if err := fs.Parse(args); err != nil {
				fmt.Fprintln(os.Stderr, "Usage: agentmon worktree add [--dry-run] [--bash|--claude|--gemini] <branch>")
				os.Exit(1)
			}

			if fs.NArg() != 1 {
				fmt.Fprintln(os.Stderr, "Usage: agentmon worktree add [--dry-run] [--bash|--claude|--gemini] <branch>")
				os.Exit(1)
			}

			tool, err := pickTool(*useBash, *useClaude, *useGemini)
			if err != nil {
				return fail(err)
			}

			m, err := newManager(configDir, *dryRun)
			if err != nil {
				return fail(err)
			}
			if err := m.Add(context.Background(), fs.Arg(0), tool); err != nil {
				return fail(err)
			}
			return nil
		},
	})

	group.AddCommand(&Command{
		Name:    "remove",
		Summary: "Remove the worktree for a branch",
		Usage:   "Usage: agentmon worktree remove [--dry-run] <branch>",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("worktree remove", flag.ContinueOnError)
			dryRun := fs.Bool("dry-run", false, "print what would happen without mutating anything")
			if err := fs.Parse(args); err != nil {
				fmt.Fprintln(os.Stderr, "Usage: agentmon worktree remove [--dry-run] <branch>")
				os.Exit(1)
			}

			if fs.NArg() != 1 {
				fmt.Fprintln(os.Stderr, "Usage: agentmon worktree remove [--dry-run] <branch>")
				os.Exit(1)
			}

			m, err := newManager(configDir, *dryRun)
			if err != nil {
				return fail(err)
			}
			if err := m.Remove(context.Background(), fs.Arg(0)); err != nil {
				return fail(err)
			}
			return nil
		},
	})
}

func pickTool(bash, claude, gemini bool) (lifecycle.Tool, error) {
	var tool lifecycle.Tool
	count := 0
	if bash {
		tool, count = lifecycle.ToolBash, count+1
	}
	if claude {
		tool, count = lifecycle.ToolClaude, count+1
	}
	if gemini {
		tool, count = lifecycle.ToolGemini, count+1
	}
	if count > 1 {
		return "", fmt.Errorf("--bash, --claude, and --gemini are mutually exclusive")
	}
	return tool, nil
}

func newManager(configDir string, dryRun bool) (*lifecycle.Manager, error) {
	cfg := loadConfig(configDir)

	logManager, err := newLogManager(configDir, cfg)
	if err != nil {
		return nil, err
	}
	// The process exits right after the command; rotation handles the file.

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	return lifecycle.NewManager(context.Background(), gitx.NewRunner(cwd), cfg, ResolveDataDir(configDir), lifecycle.Options{
		DryRun: dryRun,
		Logger: logManager.For("lifecycle"),
	})
}

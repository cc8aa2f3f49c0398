// pattern: Imperative Shell
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"agentmon/internal/config"
	"agentmon/internal/logging"
)

// ResolveDataDir returns the directory for the log and lock files.
// If configDir is specified, uses that; otherwise ~/.config/agentmon.
func ResolveDataDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "agentmon")
	}
	return filepath.Join(home, ".config", "agentmon")
}

// LogPath returns the activity log file path.
func LogPath(configDir string) string {
	return filepath.Join(ResolveDataDir(configDir), "agentmon.log")
}

// BuildApp creates the CLI application with all commands and groups.
func BuildApp(version string, configDir string) *App {
	app := NewApp(version)

	app.AddCommand(&Command{
		Name:    "monitor",
		Summary: "Render the worktree/agent dashboard",
		Usage:   "Usage: agentmon monitor [--watch] [--interval N]",
		Run: func(args []string) error {
			return runMonitorCommand(configDir, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "logs",
		Summary: "Print the tail of the activity log",
		Usage:   "Usage: agentmon logs [-n N]",
		Run: func(args []string) error {
			return runLogsCommand(configDir, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: agentmon version",
		Run: func(args []string) error {
			fmt.Println(version)
			return nil
		},
	})

	worktreeGroup := app.AddGroup("worktree", "Create and remove git worktrees")
	RegisterWorktreeCommands(worktreeGroup, configDir)

	return app
}

// loadConfig loads configuration from the explicit dir or the default path,
// degrading to defaults with a warning on error.
func loadConfig(configDir string) config.Config {
	var cfg config.Config
	var err error
	if configDir != "" {
		cfg, err = config.LoadFromDir(configDir)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
	}
	return cfg
}

// newLogManager opens the rotating activity log.
func newLogManager(configDir string, cfg config.Config) (*logging.Manager, error) {
	return logging.NewManager(logging.Config{
		FilePath: LogPath(configDir),
		Level:    cfg.LogLevel,
	})
}

func fail(err error) error {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
	return err
}

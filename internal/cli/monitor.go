// pattern: Imperative Shell
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"agentmon/internal/agent"
	"agentmon/internal/config"
	"agentmon/internal/dashboard"
	"agentmon/internal/gitx"
	"agentmon/internal/logging"
	"agentmon/internal/repo"
	"agentmon/internal/status"
)

// runMonitorCommand renders the dashboard once, or continuously with
// --watch.
func runMonitorCommand(configDir string, args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "refresh continuously")
	interval := fs.IntP("interval", "i", 0, "refresh interval in seconds (watch mode)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Usage: agentmon monitor [--watch] [--interval N]\n")
		os.Exit(1)
	}

	cfg := loadConfig(configDir)
	if *interval > 0 {
		cfg.IntervalSeconds = *interval
	}

	if *watch {
		return RunWatch(configDir, cfg)
	}

	logManager, err := newLogManager(configDir, cfg)
	if err != nil {
		return fail(err)
	}
	defer func() { _ = logManager.Close() }()

	collector := buildCollector(cfg, logManager)
	snap := collector.Collect(context.Background())
	fmt.Print(dashboard.RenderTable(snap, dashboard.NewStyles(cfg.Theme), time.Now()))
	return nil
}

// RunWatch runs the live dashboard until the user quits. A user interrupt
// is a clean exit.
func RunWatch(configDir string, cfg config.Config) error {
	logManager, err := newLogManager(configDir, cfg)
	if err != nil {
		return fail(err)
	}
	defer func() { _ = logManager.Close() }()

	appLogger := logManager.For("app")
	appLogger.Info("watch mode starting", "interval", cfg.Interval().String())

	collector := buildCollector(cfg, logManager)

	watcher, err := dashboard.NewWatcher(500*time.Millisecond, logManager.For("watch"))
	if err != nil {
		appLogger.Warn("filesystem watcher unavailable", "error", err)
		watcher = nil
	} else {
		defer func() { _ = watcher.Close() }()
	}

	model := dashboard.NewModel(collector, watcher, logManager.Entries(), cfg.Theme, cfg.Interval())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		appLogger.Error("dashboard exited with error", "error", err)
		return fail(err)
	}

	appLogger.Info("watch mode stopped")
	return nil
}

// buildCollector wires the scan pipeline: locator, status probe, process
// scanner.
func buildCollector(cfg config.Config, logs logging.LoggerProvider) *dashboard.Collector {
	git := gitx.NewRunner("")
	locator := repo.NewLocator(cfg.ResolveScanRoots(), git, cfg.CommandTimeout(), logs.For("scan"))
	probe := status.NewProbe(git, nil, logs.For("status"), cfg.CommandTimeout(), cfg.MaxWalkEntries)
	scanner := agent.NewScanner(cfg.Agents, logs.For("agents"))
	return dashboard.NewCollector(locator, probe, scanner, logs.For("scan"))
}

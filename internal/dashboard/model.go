// pattern: Imperative Shell

package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"agentmon/internal/logging"
)

type snapshotMsg struct{ snap Snapshot }
type tickMsg struct{}
type fsRefreshMsg struct{}
type logEntryMsg struct{ entry logging.LogEntry }

// Model is the watch-mode dashboard. Refreshes are driven by a fixed tick
// plus debounced filesystem events; each refresh rebuilds the snapshot from
// scratch.
type Model struct {
	collector *Collector
	watcher   *Watcher
	styles    *Styles
	interval  time.Duration
	entries   <-chan logging.LogEntry

	snapshot    Snapshot
	lastWarning string
	viewport    viewport.Model
	width       int
	height      int
	ready       bool
}

// NewModel creates the watch dashboard. watcher and entries may be nil.
func NewModel(collector *Collector, watcher *Watcher, entries <-chan logging.LogEntry, theme string, interval time.Duration) Model {
	return Model{
		collector: collector,
		watcher:   watcher,
		styles:    NewStyles(theme),
		interval:  interval,
		entries:   entries,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.collect(), m.tick()}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForFsEvent())
	}
	if m.entries != nil {
		cmds = append(cmds, m.waitForLogEntry())
	}
	return tea.Batch(cmds...)
}

func (m Model) collect() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{snap: m.collector.Collect(context.Background())}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) waitForFsEvent() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.watcher.Refresh(); !ok {
			return nil
		}
		return fsRefreshMsg{}
	}
}

func (m Model) waitForLogEntry() tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-m.entries
		if !ok {
			return nil
		}
		return logEntryMsg{entry: entry}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := msg.Height - 3 // header line + blank + footer
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, bodyHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = bodyHeight
		}
		m.viewport.SetContent(RenderTable(m.snapshot, m.styles, time.Now()))

	case snapshotMsg:
		m.snapshot = msg.snap
		if m.watcher != nil {
			m.watcher.SetPaths(msg.snap.WorktreePaths())
		}
		if m.ready {
			m.viewport.SetContent(RenderTable(m.snapshot, m.styles, time.Now()))
		}

	case tickMsg:
		return m, tea.Batch(m.collect(), m.tick())

	case fsRefreshMsg:
		return m, tea.Batch(m.collect(), m.waitForFsEvent())

	case logEntryMsg:
		if msg.entry.Level == "WARN" || msg.entry.Level == "ERROR" {
			m.lastWarning = msg.entry.Message
		}
		return m, m.waitForLogEntry()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "scanning..."
	}

	header := m.styles.HeaderStyle().Render("agentmon") +
		m.styles.FooterStyle().Render(fmt.Sprintf("  refresh %s", m.interval))

	footer := m.styles.FooterStyle().Render(fmt.Sprintf(
		"last scan %s · %d dropped agents · q to quit",
		m.snapshot.TakenAt.Format("15:04:05"), m.snapshot.DroppedAgents))
	if m.lastWarning != "" {
		footer += "  " + m.styles.WarningStyle().Render(m.lastWarning)
	}

	return header + "\n" + m.viewport.View() + "\n" + footer
}

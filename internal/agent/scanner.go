// pattern: Imperative Shell

package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"agentmon/internal/config"
	"agentmon/internal/logging"
)

// Process is one classified coding-agent process. All fields are a snapshot
// for the current scan cycle only.
type Process struct {
	PID           int
	Kind          string
	Cmdline       string
	WorkDir       string // empty when /proc/<pid>/cwd was unreadable
	StartedAt     time.Time
	ResidentBytes int64
}

// Scanner enumerates processes from procfs and keeps only those whose
// command line matches a configured agent kind.
type Scanner struct {
	procRoot string
	matchers []config.AgentMatcher
	pageSize int64
	clockTck int64
	logger   *logging.ScopedLogger
}

// NewScanner creates a Scanner reading the real /proc.
func NewScanner(matchers []config.AgentMatcher, logger *logging.ScopedLogger) *Scanner {
	return NewScannerAt("/proc", matchers, logger)
}

// NewScannerAt creates a Scanner over a different procfs root, for tests.
func NewScannerAt(procRoot string, matchers []config.AgentMatcher, logger *logging.ScopedLogger) *Scanner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Scanner{
		procRoot: procRoot,
		matchers: matchers,
		pageSize: int64(os.Getpagesize()),
		clockTck: 100, // USER_HZ; fixed at 100 on every supported kernel
		logger:   logger,
	}
}

// Scan walks procfs once. Unclassified processes are counted, not returned.
// Processes that vanish between enumeration and detail reads are skipped
// silently; that race is expected.
func (s *Scanner) Scan() (procs []Process, dropped int) {
	entries, err := os.ReadDir(s.procRoot)
	if err != nil {
		s.logger.Warn("reading proc", "root", s.procRoot, "error", err)
		return nil, 0
	}

	bootTime := s.bootTime()

	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		cmdline := s.readCmdline(pid)
		if cmdline == "" {
			continue
		}

		kind, ok := Classify(cmdline, s.matchers)
		if !ok {
			dropped++
			continue
		}

		proc := Process{
			PID:     pid,
			Kind:    kind,
			Cmdline: cmdline,
		}

		// Best effort from here: each detail degrades independently.
		if cwd, err := os.Readlink(s.procPath(pid, "cwd")); err == nil {
			proc.WorkDir = cwd
		}
		if ticks, ok := s.readStartTicks(pid); ok && !bootTime.IsZero() {
			proc.StartedAt = bootTime.Add(time.Duration(ticks*int64(time.Second)) / time.Duration(s.clockTck))
		}
		proc.ResidentBytes = s.readResident(pid)

		procs = append(procs, proc)
	}

	return procs, dropped
}

// Classify returns the agent kind for a command line, matching each
// configured pattern case-insensitively. First matcher wins.
func Classify(cmdline string, matchers []config.AgentMatcher) (string, bool) {
	lower := strings.ToLower(cmdline)
	for _, m := range matchers {
		for _, pattern := range m.Patterns {
			if pattern == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(pattern)) {
				return m.Kind, true
			}
		}
	}
	return "", false
}

func (s *Scanner) procPath(pid int, parts ...string) string {
	return filepath.Join(append([]string{s.procRoot, strconv.Itoa(pid)}, parts...)...)
}

func (s *Scanner) readCmdline(pid int) string {
	data, err := os.ReadFile(s.procPath(pid, "cmdline"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(string(data), "\x00", " "))
}

// readStartTicks returns field 22 of /proc/<pid>/stat: process start time in
// clock ticks since boot. The comm field may contain spaces and parens, so
// parsing starts after the last ')'.
func (s *Scanner) readStartTicks(pid int) (int64, bool) {
	data, err := os.ReadFile(s.procPath(pid, "stat"))
	if err != nil {
		return 0, false
	}
	stat := string(data)
	i := strings.LastIndex(stat, ")")
	if i < 0 || i+2 >= len(stat) {
		return 0, false
	}
	// Fields after the comm: state is field 3, starttime is field 22.
	fields := strings.Fields(stat[i+2:])
	if len(fields) < 20 {
		return 0, false
	}
	ticks, err := strconv.ParseInt(fields[19], 10, 64)
	if err != nil {
		return 0, false
	}
	return ticks, true
}

// readResident returns resident memory in bytes from /proc/<pid>/statm.
func (s *Scanner) readResident(pid int) int64 {
	data, err := os.ReadFile(s.procPath(pid, "statm"))
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return 0
	}
	pages, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return pages * s.pageSize
}

// bootTime reads the btime line of /proc/stat.
func (s *Scanner) bootTime() time.Time {
	data, err := os.ReadFile(filepath.Join(s.procRoot, "stat"))
	if err != nil {
		return time.Time{}
	}
	for _, line := range strings.Split(string(data), "\n") {
		var sec int64
		if _, err := fmt.Sscanf(line, "btime %d", &sec); err == nil {
			return time.Unix(sec, 0)
		}
	}
	return time.Time{}
}

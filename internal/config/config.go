// pattern: Functional Core
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AgentMatcher classifies a process as a coding agent when its command line
// contains any of the patterns (case-insensitive). Matchers are checked in
// order; the first match wins.
type AgentMatcher struct {
	Kind     string   `yaml:"kind"`
	Patterns []string `yaml:"patterns"`
}

type Config struct {
	Theme           string         `yaml:"theme"`
	LogLevel        string         `yaml:"log_level"`
	ScanRoots       []string       `yaml:"scan_roots"`
	IntervalSeconds int            `yaml:"interval_seconds"`
	Agents          []AgentMatcher `yaml:"agents"`
	CopyFiles       []string       `yaml:"copy_files"`
	SetupHook       string         `yaml:"setup_hook"`
	TimeoutSeconds  int            `yaml:"command_timeout_seconds"`
	MaxWalkEntries  int            `yaml:"max_walk_entries"`
}

func DefaultConfig() Config {
	return Config{
		Theme:           "mocha",
		ScanRoots:       []string{"~/workspaces", "/workspaces", "~/repos", "~/projects", "~/code"},
		IntervalSeconds: 1,
		Agents: []AgentMatcher{
			{Kind: "claude", Patterns: []string{"claude"}},
			{Kind: "gemini", Patterns: []string{"gemini"}},
			{Kind: "codex", Patterns: []string{"codex"}},
			{Kind: "aider", Patterns: []string{"aider"}},
			{Kind: "cursor", Patterns: []string{"cursor-agent"}},
		},
		CopyFiles: []string{
			".env",
			".env.local",
			".claude/settings.local.json",
		},
		SetupHook:      ".agentmon/setup.sh",
		TimeoutSeconds: 10,
		MaxWalkEntries: 50000,
	}
}

func Load() (Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFrom reads the YAML config at configPath. A missing file yields the
// defaults without error; a malformed file yields the defaults plus the
// parse error so the caller can warn and continue.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadFromDir loads config.yaml from an explicit directory.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if len(c.ScanRoots) == 0 {
		c.ScanRoots = def.ScanRoots
	}
	if c.IntervalSeconds <= 0 {
		c.IntervalSeconds = def.IntervalSeconds
	}
	if len(c.Agents) == 0 {
		c.Agents = def.Agents
	}
	if c.SetupHook == "" {
		c.SetupHook = def.SetupHook
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = def.TimeoutSeconds
	}
	if c.MaxWalkEntries <= 0 {
		c.MaxWalkEntries = def.MaxWalkEntries
	}
}

// Interval returns the refresh interval for watch mode.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// CommandTimeout returns the deadline applied to each external command.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveScanRoots expands a leading "~" in each scan root against the
// user's home directory. Order is preserved; empty entries are dropped.
func (c *Config) ResolveScanRoots() []string {
	home, err := os.UserHomeDir()
	resolved := make([]string, 0, len(c.ScanRoots))
	for _, root := range c.ScanRoots {
		if root == "" {
			continue
		}
		if strings.HasPrefix(root, "~") {
			if err != nil {
				continue
			}
			root = filepath.Join(home, strings.TrimPrefix(root, "~"))
		}
		resolved = append(resolved, root)
	}
	return resolved
}

func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "agentmon", "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "agentmon", "config.yaml")
	}

	return filepath.Join(home, ".config", "agentmon", "config.yaml")
}

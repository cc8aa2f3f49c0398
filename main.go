// pattern: Imperative Shell
package main

import (
	"os"

	flag "github.com/spf13/pflag"

	"agentmon/internal/cli"
	"agentmon/internal/config"
)

var version = "dev"

func main() {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that flags after a subcommand are handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/agentmon)")

	// Override flag.Usage before Parse so --help uses the CLI app's help
	flag.Usage = func() {
		app := cli.BuildApp(version, *configDir)
		app.PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}

	flag.Parse()

	app := cli.BuildApp(version, *configDir)

	if app.Execute(flag.Args()) {
		// No command: launch the live dashboard.
		cfg := loadConfig(*configDir)
		_ = cli.RunWatch(*configDir, cfg)
	}
}

func loadConfig(configDir string) config.Config {
	var cfg config.Config
	var err error
	if configDir != "" {
		cfg, err = config.LoadFromDir(configDir)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		os.Stderr.WriteString("warning: failed to load config: " + err.Error() + "\n")
	}
	return cfg
}

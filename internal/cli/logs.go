// pattern: Imperative Shell
package cli

import (
	"bufio"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"agentmon/internal/logging"
)

// runLogsCommand prints the last N entries of the activity log, re-rendered
// from their JSON form as single display lines.
func runLogsCommand(configDir string, args []string) error {
	fs := flag.NewFlagSet("logs", flag.ContinueOnError)
	n := fs.IntP("lines", "n", 50, "number of entries to print")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, "Usage: agentmon logs [-n N]")
		os.Exit(1)
	}

	entries, err := readLogTail(LogPath(configDir), *n)
	if err != nil {
		return fail(err)
	}
	for _, entry := range entries {
		fmt.Println(entry.String())
	}
	return nil
}

// readLogTail parses the last n JSON log lines from the given file.
// A missing file yields no entries; unparsable lines are skipped.
func readLogTail(path string, n int) ([]logging.LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	entries := make([]logging.LogEntry, 0, len(lines))
	for _, line := range lines {
		if entry, err := logging.ParseEntry([]byte(line)); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

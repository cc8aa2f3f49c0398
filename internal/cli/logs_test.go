package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadLogTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentmon.log")
	data := `{"level":"info","msg":"one"}
{"level":"info","msg":"two"}
garbage line
{"level":"warn","msg":"three"}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := readLogTail(path, 3)
	if err != nil {
		t.Fatalf("readLogTail: %v", err)
	}
	// Last three lines, with the unparsable one skipped.
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Message != "two" || entries[1].Message != "three" {
		t.Errorf("messages = %q, %q", entries[0].Message, entries[1].Message)
	}
	if entries[1].Level != "WARN" {
		t.Errorf("level = %q, want WARN", entries[1].Level)
	}
}

func TestReadLogTail_MissingFile(t *testing.T) {
	entries, err := readLogTail(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("readLogTail: %v", err)
	}
	if entries != nil {
		t.Errorf("got %v, want nil for missing file", entries)
	}
}

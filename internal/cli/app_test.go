package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestExecute_NoArgsLaunchesDashboard(t *testing.T) {
	app := NewApp("test")
	if !app.Execute(nil) {
		t.Error("Execute(nil) = false, want true")
	}
}

func TestExecute_DispatchesCommand(t *testing.T) {
	app := NewApp("test")
	var got []string
	app.AddCommand(&Command{
		Name: "monitor",
		Run: func(args []string) error {
			got = args
			return nil
		},
	})

	if app.Execute([]string{"monitor", "--watch"}) {
		t.Error("Execute = true, want false after dispatch")
	}
	if len(got) != 1 || got[0] != "--watch" {
		t.Errorf("command received args %v", got)
	}
}

func TestExecute_DispatchesGroupSubcommand(t *testing.T) {
	app := NewApp("test")
	wt := app.AddGroup("worktree", "Manage worktrees")
	var got []string
	wt.AddCommand(&Command{
		Name: "add",
		Run: func(args []string) error {
			got = args
			return nil
		},
	})

	if app.Execute([]string{"worktree", "add", "feature"}) {
		t.Error("Execute = true, want false after dispatch")
	}
	if len(got) != 1 || got[0] != "feature" {
		t.Errorf("subcommand received args %v", got)
	}
}

func TestPrintHelp(t *testing.T) {
	app := NewApp("test")
	app.AddCommand(&Command{Name: "monitor", Summary: "Print a one-shot status table"})
	app.AddCommand(&Command{Name: "version", Summary: "Print the version"})
	app.AddGroup("worktree", "Manage worktrees")

	var buf bytes.Buffer
	app.PrintHelp(&buf)
	out := buf.String()

	for _, want := range []string{"monitor", "version", "worktree", "(none)"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

func TestGroupPrintHelp_SortsCommands(t *testing.T) {
	g := &Group{Name: "worktree", Commands: map[string]*Command{}}
	g.AddCommand(&Command{Name: "remove", Summary: "Remove a worktree"})
	g.AddCommand(&Command{Name: "add", Summary: "Create a worktree"})

	var buf bytes.Buffer
	g.PrintHelp(&buf)
	out := buf.String()

	if strings.Index(out, "add") > strings.Index(out, "remove") {
		t.Errorf("commands not sorted:\n%s", out)
	}
}

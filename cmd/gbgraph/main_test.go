package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/morozRed/gbgraph/internal/cli"
	"github.com/morozRed/gbgraph/pkg/gb"
)

const miniPajek = `*network mini
*vertices 3
1 "x"
2 "y"
3 "z"
*arcs
1 2 5
2 3 1
*edges
3 1 2
`

func TestConvertThenVerify(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "mini.net")
	if err := os.WriteFile(src, []byte(miniPajek), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	out := filepath.Join(dir, "graphs", "mini.gb.gz")

	execute(t, dir, "convert", src, out)
	g, err := gb.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read converted graph: %v", err)
	}
	if g.ID() != "mini" || g.Order() != 3 || g.Size() != 3 {
		t.Fatalf("unexpected graph: id=%s order=%d size=%d", g.ID(), g.Order(), g.Size())
	}

	execute(t, dir, "verify", "--incremental", "--state", filepath.Join(dir, "state.json"), filepath.Join(dir, "graphs"))
	if _, err := os.Stat(filepath.Join(dir, "state.json")); err != nil {
		t.Fatalf("expected state file after incremental verify: %v", err)
	}
}

func execute(t *testing.T, dir string, args ...string) {
	t.Helper()

	originalWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get cwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	defer func() {
		_ = os.Chdir(originalWD)
	}()

	originalStdout := os.Stdout
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("failed to open %s: %v", os.DevNull, err)
	}
	os.Stdout = devNull
	defer func() {
		os.Stdout = originalStdout
		_ = devNull.Close()
	}()

	cmd := cli.NewRootCommand(version)
	cmd.SetArgs(args)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("gbgraph %v failed: %v", args, err)
	}
}

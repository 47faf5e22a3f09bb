package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/morozRed/gbgraph/pkg/gb"
	"github.com/morozRed/gbgraph/pkg/graph"
)

// writeSampleGraph stores a→b and the edge b–c: three vertices, size two.
func writeSampleGraph(t *testing.T, path string) {
	t.Helper()
	g, err := graph.New(3, graph.WithID("sample"))
	if err != nil {
		t.Fatalf("graph.New failed: %v", err)
	}
	if err := g.AddArc("a", "b", 1); err != nil {
		t.Fatalf("AddArc failed: %v", err)
	}
	if err := g.AddEdge("b", "c", 2); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := WriteGraph(g, path); err != nil {
		t.Fatalf("WriteGraph(%s) failed: %v", path, err)
	}
}

func TestInfoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.gb.gz")
	writeSampleGraph(t, path)

	cmd := newInfoCmdForTest()
	mustSetFlag(t, cmd, "json", "true")
	out := captureStdout(t, func() {
		if err := RunInfo(cmd, []string{path}); err != nil {
			t.Fatalf("RunInfo failed: %v", err)
		}
	})

	var info GraphInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid info JSON %q: %v", out, err)
	}
	if info.ID != "sample" || info.Order != 3 || info.Size != 2 {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Compression != "gzip" || info.Bytes == 0 || len(info.Hash) != 16 {
		t.Fatalf("unexpected file details %+v", info)
	}
	if info.UtilTypes != strings.Repeat("Z", 14) {
		t.Fatalf("expected all-Z schema, got %q", info.UtilTypes)
	}
}

func TestInfoMissingFile(t *testing.T) {
	if err := RunInfo(newInfoCmdForTest(), []string{filepath.Join(t.TempDir(), "none.gb")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestConvertBetweenFormats(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sample.gb")
	writeSampleGraph(t, src)

	net := filepath.Join(dir, "sample.net")
	zst := filepath.Join(dir, "sample.gb.zst")
	captureStdout(t, func() {
		if err := RunConvert(&cobra.Command{}, []string{src, net}); err != nil {
			t.Fatalf("convert to pajek failed: %v", err)
		}
		if err := RunConvert(&cobra.Command{}, []string{net, zst}); err != nil {
			t.Fatalf("convert to zstd failed: %v", err)
		}
	})

	data, err := os.ReadFile(net)
	if err != nil {
		t.Fatalf("failed to read pajek output: %v", err)
	}
	if !strings.HasPrefix(string(data), "*network sample\n*vertices 3\n") {
		t.Fatalf("unexpected pajek output:\n%s", data)
	}

	g, err := gb.ReadFile(zst)
	if err != nil {
		t.Fatalf("failed to read converted graph: %v", err)
	}
	// Pajek keeps every stored arc, so the edge now counts twice.
	if g.ID() != "sample" || g.Order() != 3 || g.Size() != 3 {
		t.Fatalf("unexpected converted graph: id=%s order=%d size=%d", g.ID(), g.Order(), g.Size())
	}
}

func TestDumpListsAdjacency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.gb")
	writeSampleGraph(t, path)

	out := captureStdout(t, func() {
		if err := RunDump(&cobra.Command{}, []string{path}); err != nil {
			t.Fatalf("RunDump failed: %v", err)
		}
	})
	for _, expected := range []string{
		"graph sample (3 vertices, 2 arcs)\n",
		"0 \"a\"\n  -> \"b\" [1]\n",
		"1 \"b\"\n  -> \"c\" [2]\n",
		"2 \"c\"\n  -> \"b\" [2]\n",
	} {
		if !strings.Contains(out, expected) {
			t.Fatalf("expected dump to contain %q, got:\n%s", expected, out)
		}
	}
}

func TestStatsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.gb")
	writeSampleGraph(t, path)

	cmd := newStatsCmdForTest()
	mustSetFlag(t, cmd, "json", "true")
	out := captureStdout(t, func() {
		if err := RunStats(cmd, []string{path}); err != nil {
			t.Fatalf("RunStats failed: %v", err)
		}
	})

	var stats GraphStats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("invalid stats JSON %q: %v", out, err)
	}
	if stats.Arcs != 3 || stats.Components != 2 || stats.LargestComponent != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.MeanOutdegree != 1 || stats.StddevOutdegree != 0 {
		t.Fatalf("unexpected degree stats %+v", stats)
	}
}

func TestVerifyIncrementalSkipsUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(t.TempDir(), "state.json")
	writeSampleGraph(t, filepath.Join(dir, "one.gb"))
	writeSampleGraph(t, filepath.Join(dir, "nested", "two.gb.sz"))
	mustWriteFile(t, filepath.Join(dir, "README.txt"), "not a graph")

	cmd := newVerifyCmdForTest()
	mustSetFlag(t, cmd, "incremental", "true")
	mustSetFlag(t, cmd, "json", "true")
	mustSetFlag(t, cmd, "state", statePath)
	mustSetFlag(t, cmd, "jobs", "2")

	first := runVerifyJSON(t, cmd, dir)
	if first.Scanned != 2 || first.Checked != 2 || first.Failed != 0 {
		t.Fatalf("unexpected first run %+v", first)
	}
	assertExists(t, statePath)

	second := runVerifyJSON(t, cmd, dir)
	if second.Checked != 0 || second.Skipped != 2 {
		t.Fatalf("expected unchanged files to be skipped, got %+v", second)
	}

	mustWriteFile(t, filepath.Join(dir, "one.gb"),
		"* GraphBase graph (util_types ZZZZZZZZZZZZZZ,1V,0A)\n\"solo\"\n* Vertices\n\"v\",0\n* Arcs\n* Checksum 0\n")
	if err := os.Remove(filepath.Join(dir, "nested", "two.gb.sz")); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	third := runVerifyJSON(t, cmd, dir)
	if third.Checked != 1 || third.Deleted != 1 || third.CheckedFiles[0] != filepath.Join(dir, "one.gb") {
		t.Fatalf("expected one changed and one deleted file, got %+v", third)
	}
}

func TestVerifyReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeSampleGraph(t, filepath.Join(dir, "good.gb"))
	mustWriteFile(t, filepath.Join(dir, "bad.gb"), "not a graph\n")

	cmd := newVerifyCmdForTest()
	mustSetFlag(t, cmd, "json", "true")

	var err error
	out := captureStdout(t, func() {
		err = RunVerify(cmd, []string{dir})
	})
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("expected failure summary error, got %v", err)
	}

	var summary VerifySummary
	if jsonErr := json.Unmarshal([]byte(out), &summary); jsonErr != nil {
		t.Fatalf("invalid verify JSON %q: %v", out, jsonErr)
	}
	if summary.Failed != 1 || summary.Failures[0].Path != filepath.Join(dir, "bad.gb") {
		t.Fatalf("unexpected failures %+v", summary.Failures)
	}
	if !strings.Contains(summary.Failures[0].Error, "invalid_header") {
		t.Fatalf("expected header error, got %q", summary.Failures[0].Error)
	}
}

func TestVerifyHonorsIgnoreRules(t *testing.T) {
	root := t.TempDir()
	writeSampleGraph(t, filepath.Join(root, "keep", "a.gb"))
	writeSampleGraph(t, filepath.Join(root, "scratch", "b.gb"))
	writeSampleGraph(t, filepath.Join(root, "keep", "c.net"))
	mustWriteFile(t, filepath.Join(root, IgnoreFile), "# generated\nscratch/\n")

	withWorkingDir(t, root, func() {
		cmd := newVerifyCmdForTest()
		mustSetFlag(t, cmd, "json", "true")
		mustSetFlag(t, cmd, "exclude", "*.net")

		summary := runVerifyJSON(t, cmd, ".")
		if summary.Scanned != 1 || summary.CheckedFiles[0] != filepath.Join("keep", "a.gb") {
			t.Fatalf("expected only keep/a.gb, got %+v", summary)
		}
	})
}

func TestRootCommandLoadsConfig(t *testing.T) {
	root := t.TempDir()
	withWorkingDir(t, root, func() {
		cmd := NewRootCommand("1.2.3")
		cmd.SetArgs([]string{"version"})
		out := captureStdout(t, func() {
			if err := cmd.Execute(); err != nil {
				t.Fatalf("version failed: %v", err)
			}
		})
		if out != "gbgraph 1.2.3\n" {
			t.Fatalf("unexpected version output %q", out)
		}

		cmd = NewRootCommand("1.2.3")
		cmd.SetArgs([]string{"--config", filepath.Join(root, "missing.toml"), "version"})
		cmd.SetErr(io.Discard)
		if err := cmd.Execute(); err == nil {
			t.Fatalf("expected error for missing config file")
		}
	})
}

func runVerifyJSON(t *testing.T, cmd *cobra.Command, path string) VerifySummary {
	t.Helper()
	out := captureStdout(t, func() {
		if err := RunVerify(cmd, []string{path}); err != nil {
			t.Fatalf("RunVerify failed: %v", err)
		}
	})
	var summary VerifySummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("invalid verify JSON %q: %v", out, err)
	}
	return summary
}

func newInfoCmdForTest() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().Bool("json", false, "")
	return cmd
}

func newStatsCmdForTest() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().Bool("json", false, "")
	return cmd
}

func newVerifyCmdForTest() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().Int("jobs", 0, "")
	cmd.Flags().Bool("incremental", false, "")
	cmd.Flags().Bool("fail-fast", false, "")
	cmd.Flags().String("state", "", "")
	cmd.Flags().StringSlice("exclude", nil, "")
	cmd.Flags().Bool("json", false, "")
	return cmd
}

func withWorkingDir(t *testing.T, dir string, fn func()) {
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

	fn()
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func mustSetFlag(t *testing.T, cmd *cobra.Command, key, value string) {
	t.Helper()
	if err := cmd.Flags().Set(key, value); err != nil {
		t.Fatalf("failed to set --%s=%s: %v", key, value, err)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create stdout pipe: %v", err)
	}
	os.Stdout = writer
	defer func() {
		os.Stdout = original
		_ = writer.Close()
		_ = reader.Close()
	}()

	fn()

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close stdout writer: %v", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("failed to read captured stdout: %v", err)
	}
	return string(data)
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

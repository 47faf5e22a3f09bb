package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/morozRed/gbgraph/internal/fileutil"
)

type GraphInfo struct {
	Path        string `json:"path"`
	ID          string `json:"id"`
	UtilTypes   string `json:"util_types"`
	Order       int    `json:"order"`
	Size        int    `json:"size"`
	Compression string `json:"compression"`
	Bytes       int64  `json:"bytes"`
	Hash        string `json:"hash"`
}

type GraphStats struct {
	Path             string  `json:"path"`
	Order            int     `json:"order"`
	Size             int     `json:"size"`
	Arcs             int     `json:"arcs"`
	MeanOutdegree    float64 `json:"mean_outdegree"`
	StddevOutdegree  float64 `json:"stddev_outdegree"`
	Components       int     `json:"components"`
	LargestComponent int     `json:"largest_component"`
}

type VerifyFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type VerifySummary struct {
	Mode         string          `json:"mode"`
	StateFile    string          `json:"state_file,omitempty"`
	Scanned      int             `json:"scanned"`
	Checked      int             `json:"checked"`
	Skipped      int             `json:"skipped"`
	Failed       int             `json:"failed"`
	Deleted      int             `json:"deleted"`
	DurationMS   int64           `json:"duration_ms"`
	CheckedFiles []string        `json:"checked_files,omitempty"`
	DeletedFiles []string        `json:"deleted_files,omitempty"`
	Failures     []VerifyFailure `json:"failures,omitempty"`
}

func PrintGraphInfo(info GraphInfo, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(info)
	}
	fmt.Printf("%s\n", info.Path)
	fmt.Printf("  id:          %s\n", info.ID)
	fmt.Printf("  util types:  %s\n", info.UtilTypes)
	fmt.Printf("  vertices:    %s\n", humanize.Comma(int64(info.Order)))
	fmt.Printf("  arcs:        %s\n", humanize.Comma(int64(info.Size)))
	fmt.Printf("  file:        %s (%s)\n", humanize.Bytes(uint64(info.Bytes)), info.Compression)
	fmt.Printf("  hash:        %s\n", info.Hash)
	return nil
}

func PrintGraphStats(stats GraphStats, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(stats)
	}
	fmt.Printf(
		"%s: vertices=%d arcs=%d outdegree=%.3f±%.3f components=%d largest=%d\n",
		stats.Path,
		stats.Order,
		stats.Size,
		stats.MeanOutdegree,
		stats.StddevOutdegree,
		stats.Components,
		stats.LargestComponent,
	)
	return nil
}

func PrintVerifySummary(summary VerifySummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(summary)
	}

	fmt.Printf(
		"%s: scanned=%d checked=%d skipped=%d failed=%d deleted=%d duration=%dms\n",
		summary.Mode,
		summary.Scanned,
		summary.Checked,
		summary.Skipped,
		summary.Failed,
		summary.Deleted,
		summary.DurationMS,
	)
	if len(summary.CheckedFiles) > 0 {
		fmt.Printf("checked files (%d): %s\n", len(summary.CheckedFiles), SummarizePaths(summary.CheckedFiles, 8))
	}
	if len(summary.DeletedFiles) > 0 {
		fmt.Printf("deleted files (%d): %s\n", len(summary.DeletedFiles), SummarizePaths(summary.DeletedFiles, 8))
	}
	for _, failure := range summary.Failures {
		fmt.Printf("  FAIL %s: %s\n", failure.Path, failure.Error)
	}
	return nil
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}

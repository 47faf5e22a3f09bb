package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/morozRed/gbgraph/internal/config"
	"github.com/morozRed/gbgraph/internal/fileutil"
	"github.com/morozRed/gbgraph/internal/logger"
	"github.com/morozRed/gbgraph/internal/state"
)

type verifyResult struct {
	record state.FileState
	err    error
}

// RunVerify reads every graph file under args concurrently. Each graph is
// private to its goroutine.
func RunVerify(cmd *cobra.Command, args []string) error {
	start := time.Now()
	log := logger.Get()

	cfg := settings()
	jobs, err := intFlag(cmd, "jobs")
	if err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = cfg.Verify.Jobs
	}
	incremental, err := boolFlag(cmd, "incremental")
	if err != nil {
		return err
	}
	failFast, err := boolFlag(cmd, "fail-fast")
	if err != nil {
		return err
	}
	asJSON, err := boolFlag(cmd, "json")
	if err != nil {
		return err
	}
	stateFile, err := OptionalStringFlag(cmd, "state")
	if err != nil {
		return err
	}
	if stateFile == "" {
		stateFile = cfg.Verify.StateFile
	}

	rootPath, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	ignoreRules, err := LoadIgnoreRules(rootPath)
	if err != nil {
		return err
	}
	excludes, err := cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return fmt.Errorf("failed to read --exclude flag: %w", err)
	}
	ignoreRules = append(ignoreRules, excludes...)

	currentHashes, err := fileutil.ScanFileHashes(args, IsGraphInput, ignoreRules)
	if err != nil {
		return fmt.Errorf("failed to scan files: %w", err)
	}

	st := state.NewState()
	if incremental {
		st, err = state.Load(stateFile)
		if err != nil {
			if !IsCorruptStateError(err) {
				return fmt.Errorf("failed to load state: %w", err)
			}
			fmt.Fprintf(os.Stderr, "warning: corrupt state file detected (%v); verifying all files\n", err)
			st = state.NewState()
		}
	}

	targets := fileutil.MapKeysSorted(currentHashes)
	if incremental {
		targets = st.ChangedFiles(currentHashes)
	}
	log.Info("verifying graph files",
		zap.Int("scanned", len(currentHashes)),
		zap.Int("targets", len(targets)),
		zap.Int("jobs", jobs))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]verifyResult, len(targets))
	progress := newVerifyProgressReporter("verify", len(targets), asJSON)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for i, path := range targets {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return nil
			}
			results[i] = verifyFile(path, currentHashes[path])
			progress.Done(path)
			if results[i].err != nil {
				log.Warn("graph file failed verification", zap.String("path", path), zap.Error(results[i].err))
				if failFast {
					return results[i].err
				}
			}
			return nil
		})
	}
	waitErr := group.Wait()
	progress.Finish()

	deleted := st.DeletedFiles(fileutil.ToSet(currentHashes))
	for _, file := range deleted {
		st.RemoveFile(file)
	}

	summary := VerifySummary{
		Mode:         "verify",
		Scanned:      len(currentHashes),
		Checked:      len(targets),
		Skipped:      MaxInt(len(currentHashes)-len(targets), 0),
		Deleted:      len(deleted),
		CheckedFiles: targets,
		DeletedFiles: deleted,
	}
	for i, path := range targets {
		if err := results[i].err; err != nil {
			st.RemoveFile(path)
			summary.Failures = append(summary.Failures, VerifyFailure{Path: path, Error: err.Error()})
			continue
		}
		st.Record(path, results[i].record)
	}
	summary.Failed = len(summary.Failures)

	if incremental {
		if err := st.Save(stateFile); err != nil {
			return fmt.Errorf("failed to save state: %w", err)
		}
		summary.StateFile = stateFile
	}
	summary.DurationMS = time.Since(start).Milliseconds()

	if err := PrintVerifySummary(summary, asJSON); err != nil {
		return err
	}
	if waitErr != nil {
		return fmt.Errorf("verification stopped: %w", waitErr)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed verification", summary.Failed, summary.Checked)
	}
	return nil
}

func verifyFile(path, hash string) verifyResult {
	g, err := ReadGraph(path)
	if err != nil {
		return verifyResult{err: err}
	}
	defer g.Free()
	return verifyResult{record: state.FileState{
		Hash:      hash,
		ID:        g.ID(),
		UtilTypes: g.Types().String(),
		Order:     g.Order(),
		Size:      g.Size(),
	}}
}

var current *config.Config

// settings returns the configuration loaded for this run, or the defaults
// when a command runs without the root command.
func settings() *config.Config {
	if current == nil {
		return config.Default()
	}
	return current
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/morozRed/gbgraph/internal/config"
	"github.com/morozRed/gbgraph/internal/logger"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gbgraph",
		Short: "Inspect, convert and verify GraphBase graph files",
		Long: `gbgraph reads and writes graphs in the GraphBase text format
(.gb, optionally compressed as .gb.gz, .gb.zst or .gb.sz) and in
the Pajek network format (.net).

Settings come from gbgraph.toml, a .env file and GBGRAPH_* variables.`,
		SilenceUsage:      true,
		PersistentPreRunE: initRuntime,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a TOML config file (default: ./"+config.DefaultFile+" if present)")

	// Inspect Commands
	infoCmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show id, schema, counts and file details of a graph",
		Args:  cobra.ExactArgs(1),
		RunE:  RunInfo,
	}
	infoCmd.Flags().Bool("json", false, "Print machine-readable graph info")

	dumpCmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print every vertex with its adjacency list",
		Args:  cobra.ExactArgs(1),
		RunE:  RunDump,
	}

	statsCmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Report outdegree statistics and strongly connected components",
		Args:  cobra.ExactArgs(1),
		RunE:  RunStats,
	}
	statsCmd.Flags().Bool("json", false, "Print machine-readable statistics")

	// Transform Commands
	convertCmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a graph in the format and compression its output name selects",
		Args:  cobra.ExactArgs(2),
		RunE:  RunConvert,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <path>...",
		Short: "Read every graph file under the given paths concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunVerify,
	}
	verifyCmd.Flags().Int("jobs", 0, "Concurrent readers (default: verify.jobs from config)")
	verifyCmd.Flags().Bool("incremental", false, "Skip files unchanged since their last successful verification")
	verifyCmd.Flags().Bool("fail-fast", false, "Stop scheduling reads after the first failure")
	verifyCmd.Flags().String("state", "", "State file for --incremental (default: verify.state_file from config)")
	verifyCmd.Flags().StringSlice("exclude", nil, "Additional ignore rules, on top of "+IgnoreFile)
	verifyCmd.Flags().Bool("json", false, "Print machine-readable run summary")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gbgraph %s\n", version)
		},
	}

	rootCmd.AddCommand(
		infoCmd,
		dumpCmd,
		statsCmd,
		convertCmd,
		verifyCmd,
		versionCmd,
	)

	return rootCmd
}

func initRuntime(cmd *cobra.Command, args []string) error {
	path, err := OptionalStringFlag(cmd, "config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Env, cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	current = cfg
	return nil
}

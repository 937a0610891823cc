// Package main is the entry point for rv32ooo: it loads a hex-byte
// instruction memory image, runs it through the out-of-order pipeline
// model for a bounded number of cycles, and reports the final
// architectural state.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rv32ooo/loader"
	"github.com/sarchlab/rv32ooo/timing/config"
	"github.com/sarchlab/rv32ooo/timing/core"
	"github.com/sarchlab/rv32ooo/timing/pipeline"
	"github.com/sarchlab/rv32ooo/trace"
)

var (
	configPath string
	tracePath  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "rv32ooo <inst_file> [max_cycles]",
	Short:        "Run an RV32I hex-byte program through the out-of-order pipeline model.",
	Args:         cobra.RangeArgs(1, 2),
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a JSON timing configuration file")
	rootCmd.Flags().StringVar(&tracePath, "trace", "", "enable a per-commit CSV trace, written under this directory")
	rootCmd.Flags().BoolVarP(&verbose, "v", "v", false, "verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if tracePath != "" {
		cfg.TraceEnabled = true
		cfg.TracePath = tracePath
	}
	if verbose {
		cfg.Verbose = true
	}

	words, err := loader.LoadHexFile(args[0])
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	maxCycles := cfg.DefaultMaxCycles
	if len(args) == 2 {
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid max_cycles %q: %w", args[1], err)
		}
		maxCycles = n
	}

	opts := []pipeline.PipelineOption{pipeline.WithProgram(words)}

	var tw *trace.CommitTraceWriter
	if cfg.TraceEnabled {
		tw = trace.NewCommitTraceWriter(cfg.TracePath)
		if err := tw.Init(); err != nil {
			return fmt.Errorf("initializing trace: %w", err)
		}
		opts = append(opts, pipeline.WithCommitSink(tw))
	}

	c := core.NewCore(opts...)

	if cfg.Verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s: %d words, running up to %d cycles\n",
			args[0], len(words), maxCycles)
	}

	c.Run(maxCycles)

	if tw != nil {
		tw.Flush()
	}

	report(cmd, c)

	return nil
}

// report prints the final cycle count, commit count, and the
// architectural values of x10 and x11 in hex and signed decimal.
func report(cmd *cobra.Command, c *core.Core) {
	stats := c.Stats()
	x10 := c.ReadArch(10)
	x11 := c.ReadArch(11)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cycles:  %d\n", stats.Cycles)
	fmt.Fprintf(out, "commits: %d\n", stats.Commits)
	fmt.Fprintf(out, "flushes: %d\n", stats.Flushes)
	fmt.Fprintf(out, "x10: 0x%08x (%d)\n", x10, int32(x10))
	fmt.Fprintf(out, "x11: 0x%08x (%d)\n", x11, int32(x11))
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/demand-sim/sim"
	"github.com/inference-sim/demand-sim/sim/trace"
)

var (
	seed         int64  // Master seed for seeding, tick and k-means streams
	logLevel     string // Log verbosity level
	clusterCount int    // Number of store locations to suggest
	scenarioPath string // Optional YAML scenario (neighborhoods, clusters, seed, trace_level)
	virtualTime  bool   // Drive the run from a virtual clock instead of wall time
	traceLevel   string // Per-tick trace verbosity
	resultsPath  string // File to write the JSON results to
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "demand-sim",
	Short: "Food-demand grid simulator with store location suggestions",
}

// runCmd simulates one run, then classifies the final grid and clusters the
// high-demand cells into suggested store locations.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demand simulation and suggest store locations",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		opts := applyScenario(runOptions{
			Seed:          seed,
			Clusters:      clusterCount,
			TraceLevel:    traceLevel,
			Neighborhoods: DefaultNeighborhoods(),
		}, loadScenario(scenarioPath), cmd.Flags().Changed)
		if err := validateOptions(opts); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		var ts sim.TimeSource = sim.WallClock{}
		if virtualTime {
			ts = sim.NewManualClock(time.Now())
		}

		cfg := sim.NewSimConfig(opts.Seed, trace.TraceLevel(opts.TraceLevel))
		s, err := sim.NewSimulator(cfg, opts.Neighborhoods, ts)
		if err != nil {
			logrus.Fatalf("Failed to build simulator: %v", err)
		}
		lastRemaining := -1
		s.OnTick = func(tick int, _ *sim.Grid, remaining int) {
			if remaining != lastRemaining {
				logrus.Infof("%ds remaining (tick %d)", remaining, tick)
				lastRemaining = remaining
			}
		}

		logrus.Infof("Starting simulation: seed=%d, neighborhoods=%d, k=%d, virtual-time=%v",
			opts.Seed, len(opts.Neighborhoods), opts.Clusters, virtualTime)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := s.Run(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				logrus.Fatalf("Simulation failed: %v", err)
			}
			logrus.Warnf("Simulation interrupted; reporting the last completed tick")
		}

		classification, err := s.Classify()
		if err != nil {
			logrus.Fatalf("Classification failed: %v", err)
		}
		if _, err := s.Cluster(opts.Clusters); err != nil {
			if !errors.Is(err, sim.ErrEmptyInput) {
				logrus.Fatalf("Clustering failed: %v", err)
			}
			logrus.Warnf("No high-demand cells; no store locations suggested")
		}

		s.Metrics.Print()
		if resultsPath != "" {
			if err := s.Metrics.SaveResults(resultsPath, &classification, s.Trace, s.Grid); err != nil {
				logrus.Fatalf("Failed to save results: %v", err)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

// neighborhoodsCmd prints the neighborhoods a run would seed from.
var neighborhoodsCmd = &cobra.Command{
	Use:   "neighborhoods",
	Short: "List the neighborhoods used to seed the grid",
	Run: func(cmd *cobra.Command, args []string) {
		hoods := DefaultNeighborhoods()
		if bundle := loadScenario(scenarioPath); bundle != nil && bundle.Neighborhoods != nil {
			hoods = bundle.Neighborhoods
		}
		out := cmd.OutOrStdout()
		for _, h := range hoods {
			fmt.Fprintf(out, "%-20s row %2d  col %2d  influence %g\n", h.Name, h.Row, h.Col, h.Influence)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file (neighborhoods, clusters, seed, trace_level)")

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for grid seeding, tick randomness and k-means initialisation")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().IntVar(&clusterCount, "k", sim.DefaultClusterCount, "Number of store locations to suggest")
	runCmd.Flags().BoolVar(&virtualTime, "virtual-time", false, "Drive the run from a virtual clock (completes instantly)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Trace verbosity (none, ticks)")
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "File to write the JSON results to")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(neighborhoodsCmd)
}

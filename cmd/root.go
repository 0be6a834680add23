package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "att",
	Short: "att – mark attendance from the command line",
	Long: `att records attendance events (morning login, lunch, tea break, logout)
with the attendance API. Each event can be marked once per day inside its
time window. Local state is kept as JSON files in ~/.att/.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(verbose)
	},
}

// Execute is the entry point called from main.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")

	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(retryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(windowsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(adminCmd)
}

// newLogger builds the diagnostic logger: warnings only, or everything
// with --verbose.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialise logger: %v\n", err)
		return zap.NewNop()
	}
	return l
}

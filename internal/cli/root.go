package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/airtraffic/riskctl/internal/encoding"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	opts := &GlobalOptions{Format: string(encoding.FormatText)}

	rootCmd := &cobra.Command{
		Use:   "riskctl",
		Short: "riskctl - Build, inspect and log collision risk assessments",
		Long: `riskctl constructs collision risk assessments between pairs of tracked
vehicles, validates their distance and timing fields, and renders or records
them for downstream alerting and logging.

It does not compute risk from telemetry; scores and levels are supplied by
the caller, on the command line or in scenario fixtures.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := encoding.ParseFormat(opts.Format)
			if err != nil {
				return err
			}
			opts.Format = string(format)
			setupLogging(cmd.ErrOrStderr(), opts)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.Format, "format", opts.Format, "Output format: text|json|protobuf")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only log warnings and errors")

	rootCmd.AddCommand(newAssessCmd(opts))
	rootCmd.AddCommand(newTableCmd())
	rootCmd.AddCommand(newScenarioCmd(opts))
	rootCmd.AddCommand(newReplayCmd(opts))
	rootCmd.AddCommand(versionCmd)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(w io.Writer, opts *GlobalOptions) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	if opts.Quiet {
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.Format == string(encoding.FormatJSON) {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/airtraffic/riskctl/internal/encoding"
	"github.com/airtraffic/riskctl/internal/models"
	"github.com/airtraffic/riskctl/internal/recorder"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newReplayCmd(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <file>",
		Short: "Print the assessments in a recording",
		Long: `Reads an NDJSON recording written with --out, re-validates every entry,
prints it, and summarises how many entries fall in each risk level.

Examples:
  riskctl replay converging.ndjson
  riskctl replay log.ndjson --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, global, args[0])
		},
	}
}

func runReplay(cmd *cobra.Command, global *GlobalOptions, path string) error {
	rep := recorder.NewReplayer(path)

	count, err := rep.CountEntries()
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}
	first, err := rep.First()
	if err != nil {
		return fmt.Errorf("failed to read first entry: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w, _, err := openWriter(global, cmd.OutOrStdout(), "")
	if err != nil {
		return err
	}
	defer w.Close()

	assessments := make(chan *models.RiskAssessment, 100)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(assessments)
		return rep.Replay(gctx, assessments)
	})

	perLevel := make(map[models.RiskLevel]int)
	immediate := 0
	g.Go(func() error {
		var seq int64
		for a := range assessments {
			seq++
			perLevel[a.RiskLevel()]++
			if a.RequiresImmediateAction() {
				immediate++
			}
			if err := w.Write(encoding.NewEnvelope(first.RunID, seq, a)); err != nil {
				return fmt.Errorf("failed to write entry %d: %w", seq, err)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("replay error: %w", err)
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\nFile:       %s\n", path)
	fmt.Fprintf(out, "Run:        %s\n", first.RunID)
	fmt.Fprintf(out, "Entries:    %d\n", count)
	for _, level := range append([]models.RiskLevel{models.RiskLevelUnset}, models.Levels()...) {
		if n := perLevel[level]; n > 0 {
			fmt.Fprintf(out, "  %-10s %d\n", level, n)
		}
	}
	fmt.Fprintf(out, "Immediate:  %d\n", immediate)
	return nil
}

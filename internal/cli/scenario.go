package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/airtraffic/riskctl/internal/encoding"
	"github.com/airtraffic/riskctl/internal/output"
	"github.com/airtraffic/riskctl/internal/recorder"
	"github.com/airtraffic/riskctl/internal/scenario"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type scenarioOptions struct {
	dir string
	out string
}

func newScenarioCmd(global *GlobalOptions) *cobra.Command {
	opts := &scenarioOptions{}

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Scenario fixture commands",
		Long:  `Commands for listing, describing and running YAML assessment fixtures.`,
	}
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Scenario directory (default: ./scenarios)")

	cmd.AddCommand(newListScenariosCmd(opts))
	cmd.AddCommand(newDescribeCmd(opts))
	cmd.AddCommand(newRunScenarioCmd(global, opts))
	return cmd
}

func (o *scenarioOptions) load() (*scenario.Registry, error) {
	dir := o.dir
	if dir == "" {
		dir = getScenarioDir()
	}
	registry := scenario.NewRegistry()
	if err := registry.LoadFromDir(dir); err != nil {
		return nil, fmt.Errorf("failed to load scenarios: %w", err)
	}
	return registry, nil
}

func newListScenariosCmd(opts *scenarioOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := opts.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			names := registry.List()
			if len(names) == 0 {
				fmt.Fprintln(out, "No scenarios found")
				return nil
			}

			descriptions := registry.ListWithDescriptions()
			fmt.Fprintln(out, "Available scenarios:")
			fmt.Fprintln(out)
			for _, name := range names {
				fmt.Fprintf(out, "  %-20s %s\n", name, descriptions[name])
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func newDescribeCmd(opts *scenarioOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <scenario>",
		Short: "Describe a scenario in detail",
		Long:  `Shows every assessment in a scenario with its distances and level updates.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := opts.load()
			if err != nil {
				return err
			}
			scen, err := registry.Get(args[0])
			if err != nil {
				return fmt.Errorf("scenario not found: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scenario: %s\n", scen.Name)
			fmt.Fprintf(out, "Description: %s\n\n", scen.Description)

			fmt.Fprintln(out, "Assessments:")
			for i, spec := range scen.Assessments {
				level := spec.Level
				if level == "" {
					level = "unset"
				}
				fmt.Fprintf(out, "  %d. %s level=%s score=%.2f\n", i+1, spec.Pair(), level, spec.Score)
				if spec.TimeToCollision != nil {
					fmt.Fprintf(out, "     Time to collision: %.1fs\n", *spec.TimeToCollision)
				}
				fmt.Fprintf(out, "     Distance: %.1fm (horizontal %.1fm, vertical %+.1fm)\n",
					spec.CurrentDistance, spec.HorizontalDistance, spec.VerticalDistance)
				if spec.Action != "" {
					fmt.Fprintf(out, "     Action override: %s\n", spec.Action)
				}
				for _, u := range spec.Updates {
					fmt.Fprintf(out, "     after %s -> %s\n", u.After, u.Level)
				}
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func newRunScenarioCmd(global *GlobalOptions, opts *scenarioOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Build a scenario's assessments and print every step",
		Long: `Builds each assessment in the scenario, applies its level updates in
order, and writes one envelope per step.

Examples:
  riskctl scenario run converging
  riskctl scenario run converging --format json --out converging.ndjson`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := opts.load()
			if err != nil {
				return err
			}
			scen, err := registry.Get(args[0])
			if err != nil {
				return fmt.Errorf("scenario not found: %w", err)
			}

			steps, err := scenario.NewEngine(scen).Run(time.Now())
			if err != nil {
				return fmt.Errorf("failed to run scenario '%s': %w", scen.Name, err)
			}

			runID := newRunID()
			slog.Info("running scenario", "scenario", scen.Name, "run_id", runID, "steps", len(steps))

			stream := output.NewStreamWriter(cmd.OutOrStdout(), encoding.Format(global.Format))
			g, gctx := errgroup.WithContext(cmd.Context())

			var envelopes chan encoding.Envelope
			recorded := 0
			if opts.out != "" {
				rec, err := recorder.NewRecorder(opts.out)
				if err != nil {
					return err
				}
				envelopes = make(chan encoding.Envelope, 100)
				g.Go(func() error {
					return rec.RecordFromChannel(gctx, envelopes, func() { recorded++ })
				})
			}

			immediate := 0
			g.Go(func() error {
				if envelopes != nil {
					defer close(envelopes)
				}
				for i, step := range steps {
					if step.Assessment.RequiresImmediateAction() {
						immediate++
					}
					env := encoding.NewEnvelope(runID, int64(i+1), step.Assessment)
					if err := stream.Write(env); err != nil {
						return fmt.Errorf("failed to write step %d: %w", i+1, err)
					}
					if envelopes == nil {
						continue
					}
					select {
					case envelopes <- env:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if opts.out != "" {
				slog.Info("recorded scenario", "path", opts.out, "entries", recorded)
			}

			final := scenario.Latest(steps)
			finalImmediate := 0
			for _, a := range final {
				if a.RequiresImmediateAction() {
					finalImmediate++
				}
			}
			slog.Info("scenario complete",
				"scenario", scen.Name,
				"steps", len(steps),
				"immediate_action", immediate,
				"pairs", len(final),
				"pairs_needing_action", finalImmediate)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.out, "out", "", "Record every step to an NDJSON file")
	return cmd
}

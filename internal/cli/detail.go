package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/ForceRank/internal/dashboard"
)

func newDetailCmd(g *globalFlags) *cobra.Command {
	var (
		wf      weightFlags
		rank    int
		explain bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "detail [instance-id]",
		Short: "Show the force package behind one record",
		Long: `Show the platform composition and headline figures for one record, picked
either by instance id or by --rank under the given weights and sort.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && rank == 0 {
				return fmt.Errorf("give an instance id or --rank")
			}

			ctx := cmd.Context()
			cfg, svc, closeFn, err := g.openService(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			weights, directive, err := wf.resolve(cmd, cfg.Scoring.Weights, cfg.Scoring.Directive())
			if err != nil {
				return err
			}
			view, err := svc.Recompute(ctx, weights, directive)
			if err != nil {
				return err
			}

			var d *dashboard.Detail
			if len(args) == 1 {
				d, err = dashboard.Find(view, args[0])
			} else {
				d, err = dashboard.Select(view, rank)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}

			fmt.Fprintln(out, d.Fields.Title)
			if d.Tooltip != "" {
				fmt.Fprintf(out, "  %s\n", d.Tooltip)
			}
			fmt.Fprintf(out, "Rank:                %d of %d (%s)\n", d.Record.Rank, len(view.Records), directive.Value())
			fmt.Fprintf(out, "Total Cost:          %s\n", d.Fields.TotalCost)
			fmt.Fprintf(out, "Success Probability: %s\n", d.Fields.ProbabilityOfSuccess)
			fmt.Fprintf(out, "Total Risk:          %s\n", d.Fields.TotalRisk)
			fmt.Fprintf(out, "Risk-to-Cost Ratio:  %s\n", d.Fields.RiskToCostRatio)
			for _, l := range d.Lines {
				fmt.Fprintf(out, "  - %s\n", l)
			}

			if explain {
				e, err := dashboard.Explain(view, d.Record.InstanceID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "\nRisk breakdown:")
				for _, f := range e.Factors {
					fmt.Fprintf(out, "  %-17s %.2f × %.1f = %.2f (%.0f%%)\n", f.Name, f.Raw, f.Weight, f.Weighted, f.Share*100)
				}
				if e.ProbabilityClamped {
					fmt.Fprintln(out, "  success probability clamped to bounds")
				}
			}
			return nil
		},
	}
	wf.register(cmd)
	cmd.Flags().IntVar(&rank, "rank", 0, "pick the record at this rank instead of by id")
	cmd.Flags().BoolVar(&explain, "explain", false, "include the weighted risk breakdown")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

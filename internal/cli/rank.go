package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/ForceRank/internal/dashboard"
	"github.com/MikeSquared-Agency/ForceRank/internal/ranking"
	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

// weightFlags are shared by every command that recomputes a view.
type weightFlags struct {
	mission     float64
	force       float64
	acquisition float64
	sort        string
}

func (w *weightFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&w.mission, "w-mission", 0, "risk-to-mission weight (0.1-5.0, default from config)")
	cmd.Flags().Float64Var(&w.force, "w-force", 0, "risk-to-force weight (0.1-5.0, default from config)")
	cmd.Flags().Float64Var(&w.acquisition, "w-acq", 0, "acquisition risk weight (0.1-5.0, default from config)")
	cmd.Flags().StringVar(&w.sort, "sort", "", "sort directive, e.g. TotalRisk_asc or total_cost:desc")
}

// resolve overlays the flags the user set on the configured defaults.
func (w *weightFlags) resolve(cmd *cobra.Command, defaults scoring.WeightVector, defaultSort ranking.SortDirective) (scoring.WeightVector, ranking.SortDirective, error) {
	weights := defaults
	if cmd.Flags().Changed("w-mission") {
		weights.Mission = w.mission
	}
	if cmd.Flags().Changed("w-force") {
		weights.Force = w.force
	}
	if cmd.Flags().Changed("w-acq") {
		weights.Acquisition = w.acquisition
	}
	if err := weights.Validate(); err != nil {
		return weights, defaultSort, err
	}

	directive := defaultSort
	if w.sort != "" {
		d, err := ranking.ParseDirective(w.sort)
		if err != nil {
			return weights, directive, err
		}
		directive = d
	}
	return weights, directive, nil
}

func newRankCmd(g *globalFlags) *cobra.Command {
	var (
		wf       weightFlags
		page     int
		pageSize int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Score and rank every force structure",
		Example: `  forcerank rank --w-mission 2 --sort RiskToCostRatio_desc
  forcerank rank --csv data.csv --page 2 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			size := pageSize
			if size == 0 {
				size = cfg.Scoring.PageSize
			}
			if size < 0 {
				size = 0
			}
			rows := ranking.Page(view.Records, page, size)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			fmt.Fprintf(out, "Weights: %s  Sort: %s  Page %d/%d\n\n",
				weights, directive.Value(), page, ranking.PageCount(len(view.Records), size))
			return writeTable(out, rows)
		},
	}
	wf.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page, -1 for all (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeTable(out io.Writer, rows []scoring.DerivedRecord) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tInstance\tCost\tTotal Risk\tAcq Risk\tP(Success)\tRisk/Cost\t")
	for _, d := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%s\t%s\t\n",
			d.Rank,
			d.InstanceID,
			dashboard.FormatCost(d.TotalCost),
			d.TotalRisk,
			d.AcquisitionRisk,
			dashboard.FormatProbability(d.ProbabilityOfSuccess),
			dashboard.FormatRatio(d.RiskToCostRatio),
		)
	}
	return tw.Flush()
}

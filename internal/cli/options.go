package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/ForceRank/internal/ranking"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the accepted --sort values",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, o := range ranking.Options() {
				fmt.Fprintf(out, "%-22s %s\n", o.Value, o.Label)
			}
		},
	}
}

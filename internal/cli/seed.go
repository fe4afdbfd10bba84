package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/ForceRank/internal/store"
)

func newSeedCmd(g *globalFlags) *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "seed <csv-file>",
		Short: "Load a CSV export into the force_structures table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if databaseURL == "" {
				cfg, err := g.load()
				if err != nil {
					return err
				}
				databaseURL = cfg.Database.URL
			}
			if databaseURL == "" {
				return fmt.Errorf("no database url: pass --database-url or set database.url")
			}

			records, err := store.NewCSVSource(args[0]).LoadRecords(ctx)
			if err != nil {
				return err
			}

			db, err := store.NewPostgresStore(ctx, databaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.EnsureSchema(ctx); err != nil {
				return err
			}
			n, err := db.UpsertRecords(ctx, records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records from %s\n", n, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "postgres connection string (default from config)")
	return cmd
}

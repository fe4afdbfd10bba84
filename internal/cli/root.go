// Package cli defines the Cobra command tree for the forcerank CLI.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/ForceRank/internal/config"
	"github.com/MikeSquared-Agency/ForceRank/internal/dashboard"
	"github.com/MikeSquared-Agency/ForceRank/internal/metrics"
	"github.com/MikeSquared-Agency/ForceRank/internal/store"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type globalFlags struct {
	configPath string
	csvPath    string
	verbose    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "forcerank",
		Short: "Rank force-structure options by weighted risk and cost",
		Long: `forcerank scores every force-structure record under a set of risk weights,
ranks the result and lets you drill into a single package.

Records are read from the dataset configured in the config file, or from
--csv when given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&g.csvPath, "csv", "", "read records from this CSV file")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newRankCmd(g),
		newDetailCmd(g),
		newOptionsCmd(),
		newSeedCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "forcerank %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

func (g *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	w := io.Discard
	if g.verbose {
		w = cmd.ErrOrStderr()
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (g *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.csvPath != "" {
		cfg.Dataset.Source = config.SourceCSV
		cfg.Dataset.CSVPath = g.csvPath
	}
	return cfg, nil
}

// openService loads the configured dataset into a Service with events off.
func (g *globalFlags) openService(ctx context.Context, cmd *cobra.Command) (*config.Config, *dashboard.Service, func(), error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, nil, err
	}
	src, closeFn, err := store.Open(ctx, cfg.Dataset.Source, cfg.Dataset.CSVPath, cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, err
	}
	svc := dashboard.NewService(src, nil, metrics.NewMetrics(), g.logger(cmd))
	if _, err := svc.Reload(ctx); err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return cfg, svc, closeFn, nil
}

// Package enrich implements the enrich command: industry labeling and
// sentiment scoring over already persisted articles.
package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finscope/newscrawl/cmd/common"
	"github.com/finscope/newscrawl/internal/database"
	"github.com/finscope/newscrawl/internal/enrich"
	"github.com/finscope/newscrawl/internal/sink"
)

// Command returns the enrich command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Fill industry labels and sentiment scores",
		Long: `Enrich labels every stored article that has no industry yet, then
scores sentiment for articles in the target industries. It requires the
postgres sink backend and reachable model endpoints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Initialize()
			if err != nil {
				return err
			}
			return Run(cmd.Context(), deps)
		},
	}
}

// Run executes both enrichment passes against the articles table.
func Run(ctx context.Context, deps *common.Deps) error {
	cfg := deps.Config
	log := deps.Logger.WithComponent("enrich")

	if cfg.Enrich.ClassifierURL == "" || cfg.Enrich.ScorerURL == "" {
		return errors.New("enrich.classifier_url and enrich.scorer_url are required")
	}
	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("enrichment needs the articles database: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	filler := enrich.NewFiller(
		sink.NewPostgresSink(db),
		enrich.NewHTTPClassifier(cfg.Enrich.ClassifierURL, cfg.Enrich.RequestTimeout),
		enrich.NewHTTPScorer(cfg.Enrich.ScorerURL, cfg.Enrich.RequestTimeout),
		cfg.Enrich.BatchSize,
		cfg.Enrich.TargetIndustries,
		log,
	)

	return filler.Run(ctx)
}

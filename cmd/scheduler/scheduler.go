// Package scheduler implements the scheduler command: the crawl and
// enrichment pipeline on a cron cadence.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/finscope/newscrawl/cmd/common"
	crawlcmd "github.com/finscope/newscrawl/cmd/crawl"
	enrichcmd "github.com/finscope/newscrawl/cmd/enrich"
	"github.com/finscope/newscrawl/internal/config"
	"github.com/finscope/newscrawl/internal/domain"
	"github.com/finscope/newscrawl/internal/engine"
)

// Command returns the scheduler command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run the crawl pipeline on a cron schedule",
		Long: `Scheduler runs an incremental crawl on the configured cron cadence.
With the postgres backend each crawl is followed by an enrichment pass.
It blocks until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Initialize()
			if err != nil {
				return err
			}
			return run(cmd.Context(), deps)
		},
	}
}

// run installs the pipeline job and blocks until the context ends.
func run(ctx context.Context, deps *common.Deps) error {
	log := deps.Logger.WithComponent("scheduler")
	spec := deps.Config.Scheduler.Cron

	// running guards against a new tick starting while a slow pipeline
	// is still in flight.
	var running sync.Mutex

	scheduler := cron.New()
	entryID, err := scheduler.AddFunc(spec, func() {
		if !running.TryLock() {
			log.Warn("previous pipeline still running, skipping tick")
			return
		}
		defer running.Unlock()

		pipeline(ctx, deps)
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	log.Info("scheduler started", "cron", spec, "entry", int(entryID))
	scheduler.Start()

	<-ctx.Done()

	log.Info("scheduler stopping")
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	return nil
}

// pipeline runs one incremental crawl and, when the articles live in
// postgres, the enrichment pass after it. Failures are logged, never
// fatal: the next tick retries from the new frontier.
func pipeline(ctx context.Context, deps *common.Deps) {
	log := deps.Logger.WithComponent("scheduler")

	registry, err := deps.LoadRegistry("")
	if err != nil {
		log.Error("failed to load sources", "error", err)
		return
	}

	report, err := crawlcmd.Run(ctx, deps, registry.Targets(), engine.Options{
		Mode: domain.ModeIncremental,
	})
	if err != nil {
		log.Error("scheduled crawl failed", "error", err)
		return
	}
	log.Info("scheduled crawl finished", "inserted", report.TotalInserted())

	if deps.Config.Sink.Backend != config.SinkPostgres {
		return
	}
	if enrichErr := enrichcmd.Run(ctx, deps); enrichErr != nil {
		log.Error("scheduled enrichment failed", "error", enrichErr)
		return
	}
	log.Info("scheduled enrichment finished")
}

// Package crawl implements the crawl command: one full engine run
// across the configured sources.
package crawl

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/finscope/newscrawl/cmd/common"
	"github.com/finscope/newscrawl/internal/config"
	"github.com/finscope/newscrawl/internal/domain"
	"github.com/finscope/newscrawl/internal/engine"
	"github.com/finscope/newscrawl/internal/extractor"
	"github.com/finscope/newscrawl/internal/fetcher"
	"github.com/finscope/newscrawl/internal/listing"
	"github.com/finscope/newscrawl/internal/logger"
)

// dayLayout is the calendar-day format for the date flags.
const dayLayout = "2006-01-02"

// Command returns the crawl command.
func Command() *cobra.Command {
	var (
		untilFlag  string
		startFlag  string
		sourceFlag string
	)

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Run one crawl over the configured sources",
		Long: `Crawl walks every configured source backward in time, newest day
first. Without --until each source stops at its first already-known
article (incremental mode). With --until, already-known articles are
skipped and the walk continues down to the given floor date
(gap-filling mode).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Initialize()
			if err != nil {
				return err
			}

			opts, err := parseOptions(untilFlag, startFlag)
			if err != nil {
				return err
			}

			registry, err := deps.LoadRegistry(sourceFlag)
			if err != nil {
				return err
			}

			report, err := Run(cmd.Context(), deps, registry.Targets(), opts)
			if report != nil {
				renderReport(report)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&untilFlag, "until", "",
		"floor date (YYYY-MM-DD); enables gap-filling mode")
	cmd.Flags().StringVar(&startFlag, "start", "",
		"first day to walk (YYYY-MM-DD); defaults to today")
	cmd.Flags().StringVar(&sourceFlag, "source", "",
		"restrict the run to one source by name")

	return cmd
}

// parseOptions derives engine options from the date flags. The mode is
// implied: a floor date means gap-filling, its absence means incremental.
func parseOptions(until, start string) (engine.Options, error) {
	opts := engine.Options{Mode: domain.ModeIncremental}

	if until != "" {
		floor, err := time.Parse(dayLayout, until)
		if err != nil {
			return opts, fmt.Errorf("invalid --until date %q: %w", until, err)
		}
		opts.Mode = domain.ModeGapFill
		opts.Floor = &floor
	}

	if start != "" {
		startDay, err := time.Parse(dayLayout, start)
		if err != nil {
			return opts, fmt.Errorf("invalid --start date %q: %w", start, err)
		}
		opts.Start = startDay
	}

	if opts.Floor != nil && !opts.Start.IsZero() && opts.Start.Before(*opts.Floor) {
		return opts, fmt.Errorf("--start %s is before --until %s", start, until)
	}

	return opts, nil
}

// Run wires the pipeline and executes one orchestrator run.
func Run(
	ctx context.Context,
	deps *common.Deps,
	targets []domain.SourceTarget,
	opts engine.Options,
) (*domain.RunReport, error) {
	log := deps.Logger.WithComponent("crawl")

	pipeline, err := deps.OpenPipeline(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := pipeline.Close(); closeErr != nil {
			log.Error("failed to close pipeline", "error", closeErr)
		}
	}()

	factory := runnerFactory(deps.Config.Crawler, pipeline, opts.Mode, log)
	orchestrator := engine.NewOrchestrator(factory, opts, log)

	return orchestrator.Run(ctx, targets)
}

// runnerFactory builds a day runner per source. Each runner owns its own
// fetch session: sources run in parallel, requests within a source stay
// sequential.
func runnerFactory(
	cfg config.CrawlerConfig,
	pipeline *common.Pipeline,
	mode domain.Mode,
	log logger.Interface,
) engine.RunnerFactory {
	return func(target domain.SourceTarget) (engine.DayRunner, error) {
		session, err := fetcher.NewSession(fetcher.Config{
			UserAgent:      cfg.UserAgent,
			RequestTimeout: cfg.RequestTimeout,
			Delay:          cfg.Delay,
		})
		if err != nil {
			return nil, fmt.Errorf("session for %s: %w", target.Name, err)
		}

		sourceLog := log.WithSource(target.Name)
		walker := listing.NewWalker(session, sourceLog)
		articleExtractor := extractor.New(session, sourceLog)

		return engine.NewRunner(
			walker,
			articleExtractor,
			pipeline.Store,
			pipeline.Sink,
			mode,
			sourceLog,
		), nil
	}
}

// renderReport prints the per-source run summary.
func renderReport(report *domain.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Crawl Run %s (%s)", report.RunID, report.Mode.String())
	t.AppendHeader(table.Row{"Source", "OID", "Inserted", "Stopped", "Last Date"})

	for _, src := range report.Sources {
		lastDate := ""
		if !src.LastDate.IsZero() {
			lastDate = src.LastDate.Format(dayLayout)
		}
		t.AppendRow(table.Row{
			src.Source.Name,
			src.Source.OID,
			src.Inserted,
			string(src.Reason),
			lastDate,
		})
	}

	t.AppendFooter(table.Row{"Total", "", strconv.Itoa(report.TotalInserted()), "", ""})
	t.Render()
}

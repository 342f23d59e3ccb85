package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/finscope/newscrawl/internal/domain"
	"github.com/finscope/newscrawl/internal/logger"
)

// DayRunner is one source's per-day state machine.
type DayRunner interface {
	RunDay(ctx context.Context, source domain.SourceTarget, day time.Time) (domain.Verdict, error)
}

// RunnerFactory builds a day runner for one source. Each runner owns an
// independent fetch session, so sources can proceed in parallel while
// everything within a source stays sequential.
type RunnerFactory func(target domain.SourceTarget) (DayRunner, error)

// Options configure an orchestrator run.
type Options struct {
	// Mode selects incremental or gap-filling duplicate handling
	Mode domain.Mode
	// Start is the first (newest) calendar day to walk; zero means today
	Start time.Time
	// Floor, when set, terminates the whole run once the cursor passes
	// it (gap-filling mode). Nil means run until every source stops.
	Floor *time.Time
}

// Orchestrator drives the backward-in-time loop across all sources.
type Orchestrator struct {
	factory RunnerFactory
	opts    Options
	log     logger.Interface
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(factory RunnerFactory, opts Options, log logger.Interface) *Orchestrator {
	return &Orchestrator{factory: factory, opts: opts, log: log}
}

// sourceState tracks one source across the run.
type sourceState struct {
	target   domain.SourceTarget
	runner   DayRunner
	inserted int
	lastDate time.Time
}

// Run walks all targets backward in time until every source stops, the
// floor date is crossed, or the context is cancelled. The active set
// shrinks monotonically; a retired source never reappears in the run.
func (o *Orchestrator) Run(
	ctx context.Context,
	targets []domain.SourceTarget,
) (*domain.RunReport, error) {
	report := &domain.RunReport{
		RunID:   uuid.NewString(),
		Mode:    o.opts.Mode,
		Started: time.Now(),
	}
	log := o.log.WithRunID(report.RunID)

	active, err := o.buildStates(targets)
	if err != nil {
		return nil, err
	}

	cursor := truncateToDay(o.opts.Start)
	if cursor.IsZero() {
		cursor = truncateToDay(time.Now())
	}

	log.Info("crawl run started",
		"mode", o.opts.Mode.String(),
		"sources", len(active),
		"start", cursor.Format("2006-01-02"),
	)

	for len(active) > 0 {
		if o.opts.Floor != nil && cursor.Before(*o.opts.Floor) {
			log.Info("floor date crossed, stopping run", "floor", o.opts.Floor.Format("2006-01-02"))
			o.retireAll(report, active, domain.StopFloor)
			active = nil
			break
		}
		if ctx.Err() != nil {
			log.Warn("run cancelled", "active_sources", len(active))
			o.retireAll(report, active, domain.StopCancelled)
			active = nil
			break
		}

		log.Info("crawling date", "date", cursor.Format("2006-01-02"), "active_sources", len(active))

		verdicts, errs := o.runTick(ctx, active, cursor)
		active = o.applyTick(log, report, active, cursor, verdicts, errs)

		cursor = cursor.AddDate(0, 0, -1)
	}

	report.Finished = time.Now()
	log.Info("crawl run finished",
		"inserted", report.TotalInserted(),
		"duration", report.Finished.Sub(report.Started).String(),
	)

	return report, ctx.Err()
}

// buildStates constructs per-source runners in stable registry order.
func (o *Orchestrator) buildStates(targets []domain.SourceTarget) ([]*sourceState, error) {
	states := make([]*sourceState, 0, len(targets))
	for _, target := range targets {
		runner, err := o.factory(target)
		if err != nil {
			return nil, fmt.Errorf("build runner for %s: %w", target.Name, err)
		}
		states = append(states, &sourceState{target: target, runner: runner})
	}
	return states, nil
}

// runTick runs one date across all active sources in parallel. Failures
// are captured per source, never propagated through the group: one
// source's fatal error must not sink the others.
func (o *Orchestrator) runTick(
	ctx context.Context,
	active []*sourceState,
	cursor time.Time,
) ([]domain.Verdict, []error) {
	verdicts := make([]domain.Verdict, len(active))
	errs := make([]error, len(active))

	g, gctx := errgroup.WithContext(ctx)
	for i, state := range active {
		i, state := i, state
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					errs[i] = fmt.Errorf("panic in source %s: %v", state.target.Name, rec)
				}
			}()
			verdicts[i], errs[i] = state.runner.RunDay(gctx, state.target, cursor)
			return nil
		})
	}
	// Group goroutines always return nil; Wait only synchronizes.
	_ = g.Wait()

	return verdicts, errs
}

// applyTick folds one tick's verdicts into the report and returns the
// surviving active set, preserving order.
func (o *Orchestrator) applyTick(
	log logger.Interface,
	report *domain.RunReport,
	active []*sourceState,
	cursor time.Time,
	verdicts []domain.Verdict,
	errs []error,
) []*sourceState {
	survivors := active[:0]

	for i, state := range active {
		state.inserted += verdicts[i].Inserted
		state.lastDate = cursor

		switch {
		case errs[i] != nil && errors.Is(errs[i], context.Canceled):
			// Cancellation is handled at the loop head next iteration.
			survivors = append(survivors, state)
		case errs[i] != nil:
			log.Error("source failed, retiring for this run",
				"source", state.target.Name,
				"date", cursor.Format("2006-01-02"),
				"error", errs[i],
			)
			o.retire(report, state, domain.StopError)
		case verdicts[i].Stopped:
			log.Info("source caught up",
				"source", state.target.Name,
				"inserted", state.inserted,
			)
			o.retire(report, state, domain.StopFrontier)
		default:
			survivors = append(survivors, state)
		}
	}

	return survivors
}

// retire records a source's final report entry.
func (o *Orchestrator) retire(report *domain.RunReport, state *sourceState, reason domain.StopReason) {
	report.Sources = append(report.Sources, domain.SourceReport{
		Source:   state.target,
		Inserted: state.inserted,
		Reason:   reason,
		LastDate: state.lastDate,
	})
}

// retireAll retires every remaining source with the same reason.
func (o *Orchestrator) retireAll(report *domain.RunReport, states []*sourceState, reason domain.StopReason) {
	for _, state := range states {
		o.retire(report, state, reason)
	}
}

// truncateToDay drops the time component of a date cursor.
func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

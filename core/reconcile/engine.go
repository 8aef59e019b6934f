package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"migration-verifier/core/logger"
	"migration-verifier/core/metrics"
	"migration-verifier/core/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reporter persists the output of a run.
// WriteType may be called concurrently for different types.
type Reporter interface {
	// Begin clears any output left by a previous run.
	Begin(ctx context.Context, info RunInfo) error
	// WriteType persists one type's report and returns its location.
	WriteType(ctx context.Context, report *TypeReport) (string, error)
	// WriteSummary persists the aggregate run summary.
	WriteSummary(ctx context.Context, summary *RunSummary) error
}

// Config controls pagination and parallelism of a run.
type Config struct {
	// PageSize is the number of records requested per page.
	PageSize int `mapstructure:"page_size" default:"1000"`
	// MaxPages bounds pagination per type and store.
	MaxPages int `mapstructure:"max_pages" default:"100"`
	// Workers is the number of types processed concurrently.
	Workers int `mapstructure:"workers" default:"4"`
}

// Engine reconciles a source store against a target store.
type Engine struct {
	source   store.Store
	target   store.Store
	reporter Reporter
	fetcher  *Fetcher
	workers  int
	logger   *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewEngine creates an engine comparing source against target.
func NewEngine(source, target store.Store, reporter Reporter, cfg Config, logger *zap.Logger) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Engine{
		source:   source,
		target:   target,
		reporter: reporter,
		fetcher:  NewFetcher(cfg.PageSize, cfg.MaxPages, logger),
		workers:  workers,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Run performs one reconciliation run and returns its summary.
//
// An error is returned when the run could not determine what to compare
// (wrapping store.ErrStoreUnavailable), when the sink could not be prepared
// or finalised, or when ctx was cancelled (the summary is then Aborted).
// Discrepancies are not errors: inspect summary.Outcome.
func (e *Engine) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunInfo: RunInfo{
			RunID:     e.newID(),
			Source:    e.source.Name(),
			Target:    e.target.Name(),
			StartedAt: e.now(),
		},
	}
	log := logger.WithRun(e.logger, summary.RunID)
	log.Info("Reconciliation started",
		zap.String("source", summary.Source),
		zap.String("target", summary.Target),
		zap.Int("workers", e.workers),
	)

	if err := e.reporter.Begin(ctx, summary.RunInfo); err != nil {
		return e.finish(ctx, summary, OutcomeFatalError, fmt.Errorf("failed to prepare report sink: %w", err))
	}

	sourceTypes, targetTypes, err := e.enumerate(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return e.finish(ctx, summary, OutcomeAborted, ctx.Err())
		}
		return e.finish(ctx, summary, OutcomeFatalError, err)
	}

	summary.SourceTypes = sourceTypes
	summary.TargetTypes = targetTypes
	summary.TypesOnlyInSource = Difference(sourceTypes, targetTypes)
	summary.TypesOnlyInTarget = Difference(targetTypes, sourceTypes)
	log.Info("Type catalogs compared",
		zap.Int("source_types", len(sourceTypes)),
		zap.Int("target_types", len(targetTypes)),
		zap.Strings("only_in_source", summary.TypesOnlyInSource),
		zap.Strings("only_in_target", summary.TypesOnlyInTarget),
	)

	onlyInSource := make(map[RecordType]struct{}, len(summary.TypesOnlyInSource))
	for _, t := range summary.TypesOnlyInSource {
		onlyInSource[t] = struct{}{}
	}

	for _, row := range e.processTypes(ctx, log, sourceTypes, onlyInSource) {
		if row != nil {
			summary.Add(*row)
		}
	}

	if ctx.Err() != nil {
		return e.finish(ctx, summary, OutcomeAborted, ctx.Err())
	}
	return e.finish(ctx, summary, summary.decideOutcome(), nil)
}

// enumerate lists both type catalogs concurrently.
func (e *Engine) enumerate(ctx context.Context) (sourceTypes, targetTypes []RecordType, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sourceTypes, err = EnumerateTypes(gctx, e.source)
		return err
	})
	g.Go(func() error {
		var err error
		targetTypes, err = EnumerateTypes(gctx, e.target)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sourceTypes, targetTypes, nil
}

// processTypes runs processType once per distinct type on a bounded pool.
// Rows keep the order of types; repeated types and types never started
// because of cancellation stay nil.
func (e *Engine) processTypes(ctx context.Context, log *zap.Logger, types []RecordType, onlyInSource map[RecordType]struct{}) []*TypeSummary {
	rows := make([]*TypeSummary, len(types))

	var g errgroup.Group
	g.SetLimit(e.workers)
	seen := make(map[RecordType]struct{}, len(types))
	for i, t := range types {
		if ctx.Err() != nil {
			break
		}
		if _, dup := seen[t]; dup {
			log.Warn("Skipping repeated type in source catalog", zap.String("type", t))
			continue
		}
		seen[t] = struct{}{}
		_, sourceOnly := onlyInSource[t]
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			row := e.processType(ctx, log, t, sourceOnly)
			rows[i] = &row
			return nil
		})
	}
	_ = g.Wait()

	return rows
}

// processType snapshots one type on both stores, diffs the snapshots and hands
// the report to the reporter. Failures are absorbed into the returned row.
func (e *Engine) processType(ctx context.Context, log *zap.Logger, t RecordType, sourceOnly bool) TypeSummary {
	var (
		source *Snapshot
		target *Snapshot
		wg     sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		source = e.fetcher.Fetch(ctx, e.source, t)
	}()
	if sourceOnly {
		target = &Snapshot{Store: e.target.Name(), Type: t, IDs: []RecordID{}}
	} else {
		target = e.fetcher.Fetch(ctx, e.target, t)
	}
	wg.Wait()

	report := NewTypeReport(t, source, target)
	report.OnlyInSource = sourceOnly

	location, err := e.reporter.WriteType(context.WithoutCancel(ctx), report)
	log = log.With(zap.String("type", t))
	if err != nil {
		log.Error("Failed to write type report", zap.Error(err))
	}

	row := report.Summary(location, err)
	log.Info("Type reconciled",
		zap.Int("source_count", row.SourceCount),
		zap.Int("target_count", row.TargetCount),
		zap.Int("missing_in_target", row.MissingInTarget),
		zap.Int("extra_in_target", row.ExtraInTarget),
		zap.Bool("incomplete", row.Incomplete),
	)
	return row
}

// finish stamps the outcome, writes the summary and records metrics.
// runErr is the error Run returns; a failed summary write is joined to it.
func (e *Engine) finish(ctx context.Context, summary *RunSummary, outcome Outcome, runErr error) (*RunSummary, error) {
	summary.FinishedAt = e.now()
	summary.Outcome = outcome
	if runErr != nil {
		summary.Error = runErr.Error()
	}

	log := logger.WithRun(e.logger, summary.RunID)
	if err := e.reporter.WriteSummary(context.WithoutCancel(ctx), summary); err != nil {
		log.Error("Failed to write run summary", zap.Error(err))
		runErr = errors.Join(runErr, fmt.Errorf("failed to write run summary: %w", err))
	}

	metrics.RecordDiscrepancies(summary.TotalMissingInTarget, summary.TotalExtraInTarget)
	metrics.RecordRun(string(outcome), summary.FinishedAt.Sub(summary.StartedAt))

	log.Info("Reconciliation finished",
		zap.String("outcome", string(outcome)),
		zap.Int("types", len(summary.Types)),
		zap.Int("total_source", summary.TotalSource),
		zap.Int("total_target", summary.TotalTarget),
		zap.Int("missing_in_target", summary.TotalMissingInTarget),
		zap.Int("extra_in_target", summary.TotalExtraInTarget),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, runErr
}

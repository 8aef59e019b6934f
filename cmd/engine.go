package cmd

import (
	"fmt"

	"migration-verifier/core/config"
	"migration-verifier/core/reconcile"
	"migration-verifier/core/report"
	"migration-verifier/core/store"

	"go.uber.org/zap"
)

// openStores opens the source and target stores described by cfg.
func openStores(cfg *config.Config) (source, target store.Store, err error) {
	source, err = store.Open("source", cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open source store: %w", err)
	}
	target, err = store.Open("target", cfg.Target)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open target store: %w", err)
	}
	return source, target, nil
}

// buildEngine wires the report sink and the engine comparing source and target.
func buildEngine(cfg *config.Config, source, target store.Store, logg *zap.Logger) (*reconcile.Engine, error) {
	sink, err := report.NewSink(cfg.Report, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create report sink: %w", err)
	}
	reporter := report.New(sink, cfg.Report.WriteSnapshots, logg)

	return reconcile.NewEngine(source, target, reporter, cfg.Reconcile, logg), nil
}

// exitCode maps a run result to the process exit code. A run whose summary
// could not be persisted is fatal even when the comparison itself completed.
func exitCode(summary *reconcile.RunSummary, err error) int {
	if summary == nil {
		return ExitFatal
	}
	switch summary.Outcome {
	case reconcile.OutcomeAborted:
		return ExitAborted
	case reconcile.OutcomeFatalError:
		return ExitFatal
	}
	if err != nil {
		return ExitFatal
	}
	if summary.Outcome == reconcile.OutcomeSuccess {
		return ExitSuccess
	}
	return ExitDiscrepancy
}

// printRunReport prints a formatted run report using logger.
func printRunReport(l *zap.Logger, s *reconcile.RunSummary) {
	l.Info("Reconciliation report",
		zap.String("run_id", s.RunID),
		zap.String("outcome", string(s.Outcome)),
		zap.Int("types", len(s.Types)),
		zap.Int("total_source", s.TotalSource),
		zap.Int("total_target", s.TotalTarget),
		zap.Int("missing_in_target", s.TotalMissingInTarget),
		zap.Int("extra_in_target", s.TotalExtraInTarget),
		zap.Int("malformed", s.TotalMalformed),
		zap.Int("incomplete_types", s.IncompleteTypes),
	)

	if len(s.TypesOnlyInSource) > 0 || len(s.TypesOnlyInTarget) > 0 {
		l.Warn("Type catalogs differ",
			zap.Strings("only_in_source", s.TypesOnlyInSource),
			zap.Strings("only_in_target", s.TypesOnlyInTarget),
		)
	}

	// Show a sample of differing types (max 10 for logger)
	const maxShow = 10
	shown, hidden := 0, 0
	for _, row := range s.Types {
		if row.Clean() {
			continue
		}
		if shown == maxShow {
			hidden++
			continue
		}
		shown++
		l.Warn("Type differs",
			zap.String("type", row.Type),
			zap.String("status", report.Status(row)),
			zap.Int("source_count", row.SourceCount),
			zap.Int("target_count", row.TargetCount),
			zap.Int("missing_in_target", row.MissingInTarget),
			zap.Int("extra_in_target", row.ExtraInTarget),
			zap.String("report", row.Location),
		)
	}
	if hidden > 0 {
		l.Info("Additional differing types not shown", zap.Int("count", hidden))
	}
}

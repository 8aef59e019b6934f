package report

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"migration-verifier/core/reconcile"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	summaryText    = "summary.txt"
	summaryJSON    = "summary.json"
	typeReportJSON = "report.json"
	missingListing = "missing_in_target.txt"
	extraListing   = "extra_in_target.txt"
	sourceSnapshot = "source_ids.txt"
	targetSnapshot = "target_ids.txt"
	typesDir       = "types"
	emptyTypeDir   = "_"
)

var _ reconcile.Reporter = (*Reporter)(nil)

type reportFile struct {
	name string
	data []byte
}

// Reporter writes run output to a Sink using this layout:
//
//	summary.txt, summary.json
//	types/<type>/summary.txt, report.json
//	types/<type>/missing_in_target.txt, extra_in_target.txt (when non-empty)
//	types/<type>/source_ids.txt, target_ids.txt (when snapshots are enabled)
type Reporter struct {
	sink           Sink
	writeSnapshots bool
	logger         *zap.Logger
}

// New creates a reporter writing to sink.
func New(sink Sink, writeSnapshots bool, logger *zap.Logger) *Reporter {
	return &Reporter{sink: sink, writeSnapshots: writeSnapshots, logger: logger}
}

// Begin clears the output of the previous run.
func (r *Reporter) Begin(ctx context.Context, info reconcile.RunInfo) error {
	if err := r.sink.Reset(ctx); err != nil {
		return err
	}
	r.logger.Debug("Report sink cleared",
		zap.String("run_id", info.RunID),
		zap.String("location", r.sink.Location("")),
	)
	return nil
}

// WriteType writes one type's files and returns the location of its directory.
func (r *Reporter) WriteType(ctx context.Context, report *reconcile.TypeReport) (string, error) {
	dir := path.Join(typesDir, DirName(report.Type))

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report for %s: %w", report.Type, err)
	}

	files := []reportFile{
		{summaryText, renderTypeSummary(report)},
		{typeReportJSON, body},
	}
	if len(report.Discrepancy.MissingInTarget) > 0 {
		files = append(files, reportFile{missingListing, listing(report.Discrepancy.MissingInTarget)})
	}
	if len(report.Discrepancy.ExtraInTarget) > 0 {
		files = append(files, reportFile{extraListing, listing(report.Discrepancy.ExtraInTarget)})
	}
	if r.writeSnapshots {
		files = append(files,
			reportFile{sourceSnapshot, listing(report.Source.IDs)},
			reportFile{targetSnapshot, listing(report.Target.IDs)},
		)
	}

	for _, f := range files {
		if err := r.sink.Write(ctx, path.Join(dir, f.name), f.data); err != nil {
			return "", err
		}
	}
	return r.sink.Location(dir), nil
}

// WriteSummary writes the run summary in text and JSON form.
func (r *Reporter) WriteSummary(ctx context.Context, summary *reconcile.RunSummary) error {
	body, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}
	if err := r.sink.Write(ctx, summaryJSON, body); err != nil {
		return err
	}
	if err := r.sink.Write(ctx, summaryText, renderRunSummary(summary)); err != nil {
		return err
	}
	r.logger.Debug("Run summary written", zap.String("location", r.sink.Location(summaryText)))
	return nil
}

// DirName turns a record type into a single path segment. Separators, spaces
// and other reserved characters are percent-escaped and dot-only names are
// escaped so they cannot address a parent directory.
func DirName(recordType string) string {
	if recordType == "" {
		return emptyTypeDir
	}
	name := url.PathEscape(recordType)
	if strings.Trim(name, ".") == "" {
		name = strings.ReplaceAll(name, ".", "%2E")
	}
	return name
}

func listing(ids []string) []byte {
	if len(ids) == 0 {
		return nil
	}
	return []byte(strings.Join(ids, "\n") + "\n")
}

package reconcile

import "time"

// RecordType names a category of records within a store.
type RecordType = string

// RecordID identifies one record within a RecordType and store.
type RecordID = string

// Snapshot is the set of identifiers of one type retrieved from one store by
// exhaustive pagination. IDs are unique and in the store's identifier order.
type Snapshot struct {
	// Store is the name of the store the snapshot was taken from.
	Store string `json:"store"`

	// Type is the record type.
	Type RecordType `json:"type"`

	// IDs holds the deduplicated identifiers in first-seen order.
	IDs []RecordID `json:"-"`

	// Pages is the number of page requests issued, failed ones included.
	Pages int `json:"pages"`

	// Malformed counts records excluded for lacking an identifier.
	Malformed int `json:"malformed"`

	// Duplicates counts identifiers the store returned more than once.
	Duplicates int `json:"duplicates"`

	// Partial is set when a page request failed and pagination stopped early.
	Partial bool `json:"partial"`

	// Truncated is set when the page safety bound stopped pagination.
	Truncated bool `json:"truncated"`

	// Error describes the page failure behind a partial snapshot.
	Error string `json:"error,omitempty"`
}

// Count returns the number of unique identifiers in the snapshot.
func (s *Snapshot) Count() int {
	return len(s.IDs)
}

// Complete reports whether the snapshot is known to hold every well-formed record.
func (s *Snapshot) Complete() bool {
	return !s.Partial && !s.Truncated
}

// DiscrepancySet holds the identifiers present on only one side for a type.
type DiscrepancySet struct {
	// MissingInTarget is present in the source snapshot and absent from the target.
	MissingInTarget []RecordID `json:"missing_in_target"`

	// ExtraInTarget is present in the target snapshot and absent from the source.
	ExtraInTarget []RecordID `json:"extra_in_target"`
}

// Empty reports whether neither side has discrepancies.
func (d DiscrepancySet) Empty() bool {
	return len(d.MissingInTarget) == 0 && len(d.ExtraInTarget) == 0
}

// TypeReport is the comparison result for one type. It is built once and not modified.
type TypeReport struct {
	Type        RecordType     `json:"type"`
	SourceCount int            `json:"source_count"`
	TargetCount int            `json:"target_count"`
	Discrepancy DiscrepancySet `json:"discrepancy"`

	// OnlyInSource is set when the target's type catalog does not list the type;
	// the target snapshot is then empty and was not fetched.
	OnlyInSource bool `json:"only_in_source"`

	Source *Snapshot `json:"source"`
	Target *Snapshot `json:"target"`
}

// NewTypeReport diffs the two snapshots of recordType.
func NewTypeReport(recordType RecordType, source, target *Snapshot) *TypeReport {
	return &TypeReport{
		Type:        recordType,
		SourceCount: source.Count(),
		TargetCount: target.Count(),
		Discrepancy: DiscrepancySet{
			MissingInTarget: Difference(source.IDs, target.IDs),
			ExtraInTarget:   Difference(target.IDs, source.IDs),
		},
		Source: source,
		Target: target,
	}
}

// Incomplete reports whether either snapshot may be missing data.
func (r *TypeReport) Incomplete() bool {
	return !r.Source.Complete() || !r.Target.Complete() || r.Source.Malformed > 0 || r.Target.Malformed > 0
}

// Clean reports whether the type matched exactly on complete data.
func (r *TypeReport) Clean() bool {
	return r.SourceCount == r.TargetCount && r.Discrepancy.Empty() && !r.Incomplete()
}

// Summary condenses the report into a summary row. location is where the
// reporter stored the report; writeErr is a failed write, if any.
func (r *TypeReport) Summary(location string, writeErr error) TypeSummary {
	s := TypeSummary{
		Type:            r.Type,
		SourceCount:     r.SourceCount,
		TargetCount:     r.TargetCount,
		MissingInTarget: len(r.Discrepancy.MissingInTarget),
		ExtraInTarget:   len(r.Discrepancy.ExtraInTarget),
		SourceMalformed: r.Source.Malformed,
		TargetMalformed: r.Target.Malformed,
		SourcePartial:   r.Source.Partial,
		TargetPartial:   r.Target.Partial,
		Truncated:       r.Source.Truncated || r.Target.Truncated,
		OnlyInSource:    r.OnlyInSource,
		Incomplete:      r.Incomplete(),
		Location:        location,
	}
	if writeErr != nil {
		s.ReportError = writeErr.Error()
	}
	return s
}

// TypeSummary is one type's row in the run summary.
type TypeSummary struct {
	Type            RecordType `json:"type"`
	SourceCount     int        `json:"source_count"`
	TargetCount     int        `json:"target_count"`
	MissingInTarget int        `json:"missing_in_target"`
	ExtraInTarget   int        `json:"extra_in_target"`
	SourceMalformed int        `json:"source_malformed"`
	TargetMalformed int        `json:"target_malformed"`
	SourcePartial   bool       `json:"source_partial"`
	TargetPartial   bool       `json:"target_partial"`
	Truncated       bool       `json:"truncated"`
	OnlyInSource    bool       `json:"only_in_source"`
	Incomplete      bool       `json:"incomplete"`
	Location        string     `json:"location,omitempty"`
	ReportError     string     `json:"report_error,omitempty"`
}

// Clean reports whether the row describes an exact match on complete data.
func (s TypeSummary) Clean() bool {
	return s.SourceCount == s.TargetCount && s.MissingInTarget == 0 && s.ExtraInTarget == 0 && !s.Incomplete
}

// Outcome is the terminal state of a run.
type Outcome string

const (
	// OutcomeSuccess means every processed type matched exactly on complete data.
	OutcomeSuccess Outcome = "success"
	// OutcomeDiscrepancyFound means at least one type differed or had incomplete data.
	OutcomeDiscrepancyFound Outcome = "discrepancy_found"
	// OutcomeFatalError means the run could not determine what to compare.
	OutcomeFatalError Outcome = "fatal_error"
	// OutcomeAborted means the run was cancelled before finishing.
	OutcomeAborted Outcome = "aborted"
)

// RunInfo identifies a run to the reporter before any output is written.
type RunInfo struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	StartedAt time.Time `json:"started_at"`
}

// RunSummary aggregates one run across all processed types.
type RunSummary struct {
	RunInfo

	FinishedAt time.Time `json:"finished_at"`
	Outcome    Outcome   `json:"outcome"`
	Error      string    `json:"error,omitempty"`

	SourceTypes       []RecordType `json:"source_types"`
	TargetTypes       []RecordType `json:"target_types"`
	TypesOnlyInSource []RecordType `json:"types_only_in_source"`
	TypesOnlyInTarget []RecordType `json:"types_only_in_target"`

	TotalSource          int `json:"total_source"`
	TotalTarget          int `json:"total_target"`
	TotalMissingInTarget int `json:"total_missing_in_target"`
	TotalExtraInTarget   int `json:"total_extra_in_target"`
	TotalMalformed       int `json:"total_malformed"`
	IncompleteTypes      int `json:"incomplete_types"`

	// Types lists processed types in source catalog order.
	Types []TypeSummary `json:"types"`
}

// Add folds one type's row into the totals.
func (s *RunSummary) Add(row TypeSummary) {
	s.TotalSource += row.SourceCount
	s.TotalTarget += row.TargetCount
	s.TotalMissingInTarget += row.MissingInTarget
	s.TotalExtraInTarget += row.ExtraInTarget
	s.TotalMalformed += row.SourceMalformed + row.TargetMalformed
	if row.Incomplete {
		s.IncompleteTypes++
	}
	s.Types = append(s.Types, row)
}

// Lookup returns the row for recordType, if it was processed.
func (s *RunSummary) Lookup(recordType RecordType) (TypeSummary, bool) {
	for _, row := range s.Types {
		if row.Type == recordType {
			return row, true
		}
	}
	return TypeSummary{}, false
}

// decideOutcome returns Success only if every row is clean.
func (s *RunSummary) decideOutcome() Outcome {
	for _, row := range s.Types {
		if !row.Clean() {
			return OutcomeDiscrepancyFound
		}
	}
	return OutcomeSuccess
}

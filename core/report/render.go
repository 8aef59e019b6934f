package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"migration-verifier/core/reconcile"
)

// Status classifies a summary row for display.
func Status(row reconcile.TypeSummary) string {
	switch {
	case row.Incomplete:
		return "INCOMPLETE"
	case row.Clean():
		return "MATCH"
	default:
		return "MISMATCH"
	}
}

func renderTypeSummary(r *reconcile.TypeReport) []byte {
	row := r.Summary("", nil)

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Type:\t%s\n", r.Type)
	fmt.Fprintf(w, "Status:\t%s\n", Status(row))
	fmt.Fprintf(w, "Source (%s):\t%d records\t%d pages\n", r.Source.Store, r.SourceCount, r.Source.Pages)
	fmt.Fprintf(w, "Target (%s):\t%d records\t%d pages\n", r.Target.Store, r.TargetCount, r.Target.Pages)
	fmt.Fprintf(w, "Missing in target:\t%d\n", row.MissingInTarget)
	fmt.Fprintf(w, "Extra in target:\t%d\n", row.ExtraInTarget)
	_ = w.Flush()

	notes := snapshotNotes(r.Source)
	notes = append(notes, snapshotNotes(r.Target)...)
	if r.OnlyInSource {
		notes = append(notes, "type is not listed by the target store; target was not queried")
	}
	if len(notes) > 0 {
		buf.WriteString("\nNotes:\n")
		for _, n := range notes {
			buf.WriteString("  - " + n + "\n")
		}
	}
	return buf.Bytes()
}

func snapshotNotes(s *reconcile.Snapshot) []string {
	var notes []string
	if s.Partial {
		notes = append(notes, fmt.Sprintf("%s snapshot is partial: %s", s.Store, s.Error))
	}
	if s.Truncated {
		notes = append(notes, fmt.Sprintf("%s snapshot hit the page limit after %d pages and is likely an undercount", s.Store, s.Pages))
	}
	if s.Malformed > 0 {
		notes = append(notes, fmt.Sprintf("%s returned %d records without an identifier", s.Store, s.Malformed))
	}
	if s.Duplicates > 0 {
		notes = append(notes, fmt.Sprintf("%s returned %d duplicate identifiers", s.Store, s.Duplicates))
	}
	return notes
}

func renderRunSummary(s *reconcile.RunSummary) []byte {
	var buf bytes.Buffer

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Run:\t%s\n", s.RunID)
	fmt.Fprintf(w, "Source:\t%s\n", s.Source)
	fmt.Fprintf(w, "Target:\t%s\n", s.Target)
	fmt.Fprintf(w, "Started:\t%s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Finished:\t%s\n", s.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Outcome:\t%s\n", s.Outcome)
	if s.Error != "" {
		fmt.Fprintf(w, "Error:\t%s\n", s.Error)
	}
	_ = w.Flush()

	buf.WriteString("\n")
	w = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Types in source:\t%d\n", len(s.SourceTypes))
	fmt.Fprintf(w, "Types in target:\t%d\n", len(s.TargetTypes))
	fmt.Fprintf(w, "Only in source:\t%s\n", joinOrNone(s.TypesOnlyInSource))
	fmt.Fprintf(w, "Only in target:\t%s\n", joinOrNone(s.TypesOnlyInTarget))
	fmt.Fprintf(w, "Total source records:\t%d\n", s.TotalSource)
	fmt.Fprintf(w, "Total target records:\t%d\n", s.TotalTarget)
	fmt.Fprintf(w, "Total missing in target:\t%d\n", s.TotalMissingInTarget)
	fmt.Fprintf(w, "Total extra in target:\t%d\n", s.TotalExtraInTarget)
	fmt.Fprintf(w, "Malformed records:\t%d\n", s.TotalMalformed)
	fmt.Fprintf(w, "Incomplete types:\t%d\n", s.IncompleteTypes)
	_ = w.Flush()

	if len(s.Types) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("\n")
	w = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tSOURCE\tTARGET\tMISSING\tEXTRA\tSTATUS\tREPORT")
	for _, row := range s.Types {
		location := row.Location
		if row.ReportError != "" {
			location = "write failed: " + row.ReportError
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			row.Type, row.SourceCount, row.TargetCount, row.MissingInTarget, row.ExtraInTarget, Status(row), location)
	}
	_ = w.Flush()

	return buf.Bytes()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

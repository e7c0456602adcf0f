// Package report renders a finished BatchReport into its output artifacts:
// the human-readable text report and an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

// WriteText renders the sequential, field-ordered record for every pair
// followed by the batch summary. Output is byte-stable for a given report.
func WriteText(w io.Writer, report *domain.BatchReport) error {
	var b strings.Builder

	for _, pair := range report.Pairs {
		fmt.Fprintf(&b, "Pair: %s\n", pair.Key)
		fmt.Fprintf(&b, "Status: %s\n", pair.Status)
		if pair.Status == domain.PairExtractionFailed {
			fmt.Fprintf(&b, "  failure: %s\n", pair.FailureNote)
		}
		for _, verdict := range pair.Verdicts {
			fmt.Fprintf(&b, "  %s: %s (A=%s, B=%s)", verdict.Field, verdict.Status,
				quoteValue(verdict.ValueA), quoteValue(verdict.ValueB))
			if verdict.Detail != "" {
				fmt.Fprintf(&b, " [%s]", verdict.Detail)
			}
			b.WriteString("\n")
		}
		b.WriteString("---\n")
	}

	fmt.Fprintf(&b, "Summary: %d pairs, %d clean, %d flagged, %d extraction-failed\n",
		report.Summary.TotalPairs, report.Summary.Clean, report.Summary.Flagged, report.Summary.Failed)
	if len(report.UnmatchedPDFs) > 0 {
		fmt.Fprintf(&b, "Unmatched PDFs: %s\n", strings.Join(report.UnmatchedPDFs, ", "))
	}
	if len(report.UnmatchedSheets) > 0 {
		fmt.Fprintf(&b, "Unmatched spreadsheets: %s\n", strings.Join(report.UnmatchedSheets, ", "))
	}
	for _, dup := range report.Duplicates {
		fmt.Fprintf(&b, "Duplicate %s files for %s: used %s, skipped %s\n",
			dup.Side, dup.Key, dup.Used, strings.Join(dup.Skipped, ", "))
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func quoteValue(value string) string {
	if value == "" {
		return "<missing>"
	}
	return fmt.Sprintf("%q", value)
}

// TextSink adapts WriteText to the ReportSink port.
type TextSink struct {
	W io.Writer
}

func (s TextSink) Write(report *domain.BatchReport) error {
	return WriteText(s.W, report)
}

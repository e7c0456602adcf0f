package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

func sampleReport() *domain.BatchReport {
	return &domain.BatchReport{
		BatchID: "batch-1",
		Pairs: []domain.PairResult{
			{
				Key:    "claim_001",
				Status: domain.PairFlagged,
				Verdicts: []domain.FieldVerdict{
					{Field: "policy_number", Status: domain.VerdictMatch, ValueA: "POL-4471", ValueB: "POL-4471"},
					{Field: "insured_name", Status: domain.VerdictMismatch, ValueA: "Jane Doe", ValueB: "Jane A. Doe"},
					{Field: "amount", Status: domain.VerdictMatch, ValueA: "152.30", ValueB: "152.30"},
				},
			},
			{
				Key:         "claim_002",
				Status:      domain.PairExtractionFailed,
				FailureNote: "extract claim_002.pdf: unreadable",
			},
		},
		UnmatchedPDFs:   []string{"invoice_999.pdf"},
		UnmatchedSheets: []string{"policy_888.xlsx"},
		Warnings:        []string{"input count mismatch: 3 PDF files vs 2 spreadsheet files"},
		Summary:         domain.Summary{TotalPairs: 2, Clean: 0, Flagged: 1, Failed: 1},
	}
}

func TestWriteTextRendersPairsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Pair: claim_001",
		"Status: FLAGGED",
		`insured_name: MISMATCH (A="Jane Doe", B="Jane A. Doe")`,
		"Pair: claim_002",
		"Status: EXTRACTION_FAILED",
		"failure: extract claim_002.pdf: unreadable",
		"Summary: 2 pairs, 0 clean, 1 flagged, 1 extraction-failed",
		"Unmatched PDFs: invoice_999.pdf",
		"Unmatched spreadsheets: policy_888.xlsx",
		"Warning: input count mismatch",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextIsDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	if err := WriteText(&first, sampleReport()); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if err := WriteText(&second, sampleReport()); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("report output not byte-stable")
	}
}

func TestWriteTextMarksMissingValues(t *testing.T) {
	report := &domain.BatchReport{
		Pairs: []domain.PairResult{{
			Key:    "claim_003",
			Status: domain.PairFlagged,
			Verdicts: []domain.FieldVerdict{
				{Field: "address", Status: domain.VerdictMissingB, ValueA: "12 Main St"},
			},
		}},
		Summary: domain.Summary{TotalPairs: 1, Flagged: 1},
	}
	var buf bytes.Buffer
	if err := WriteText(&buf, report); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if !strings.Contains(buf.String(), `address: MISSING_B (A="12 Main St", B=<missing>)`) {
		t.Fatalf("missing value not marked:\n%s", buf.String())
	}
}

package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbookRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer workbook.Close()

	total, err := workbook.GetCellValue(summarySheet, "B2")
	if err != nil {
		t.Fatalf("read summary cell: %v", err)
	}
	if total != "2" {
		t.Fatalf("expected total pairs 2, got %q", total)
	}

	rows, err := workbook.GetRows(verdictsSheet)
	if err != nil {
		t.Fatalf("read verdicts sheet: %v", err)
	}
	// header + 3 verdicts for claim_001 + 1 failure row for claim_002
	if len(rows) != 5 {
		t.Fatalf("expected 5 verdict rows, got %d: %v", len(rows), rows)
	}
	if rows[2][2] != "insured_name" || rows[2][3] != "MISMATCH" {
		t.Fatalf("unexpected verdict row: %v", rows[2])
	}
	if rows[4][1] != "EXTRACTION_FAILED" {
		t.Fatalf("expected failure row for claim_002, got %v", rows[4])
	}
}

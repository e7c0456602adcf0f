package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

const (
	summarySheet  = "Summary"
	verdictsSheet = "Verdicts"
)

// WriteWorkbook renders the report as an XLSX workbook: a summary sheet
// with counts and unmatched files, and one row per field verdict.
func WriteWorkbook(w io.Writer, report *domain.BatchReport) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	if err := workbook.SetSheetName(workbook.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("name summary sheet: %w", err)
	}
	if err := writeSummarySheet(workbook, report); err != nil {
		return err
	}
	if _, err := workbook.NewSheet(verdictsSheet); err != nil {
		return fmt.Errorf("create verdicts sheet: %w", err)
	}
	if err := writeVerdictsSheet(workbook, report); err != nil {
		return err
	}

	if err := workbook.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(workbook *excelize.File, report *domain.BatchReport) error {
	rows := [][]any{
		{"Batch", report.BatchID},
		{"Total pairs", report.Summary.TotalPairs},
		{"Clean", report.Summary.Clean},
		{"Flagged", report.Summary.Flagged},
		{"Extraction failed", report.Summary.Failed},
	}
	for _, name := range report.UnmatchedPDFs {
		rows = append(rows, []any{"Unmatched PDF", name})
	}
	for _, name := range report.UnmatchedSheets {
		rows = append(rows, []any{"Unmatched spreadsheet", name})
	}
	for _, warning := range report.Warnings {
		rows = append(rows, []any{"Warning", warning})
	}
	return writeRows(workbook, summarySheet, rows)
}

func writeVerdictsSheet(workbook *excelize.File, report *domain.BatchReport) error {
	rows := [][]any{{"Pair", "Pair status", "Field", "Verdict", "PDF value", "Spreadsheet value", "Detail"}}
	for _, pair := range report.Pairs {
		if pair.Status == domain.PairExtractionFailed {
			rows = append(rows, []any{pair.Key, string(pair.Status), "", "", "", "", pair.FailureNote})
			continue
		}
		for _, verdict := range pair.Verdicts {
			rows = append(rows, []any{
				pair.Key, string(pair.Status), verdict.Field, string(verdict.Status),
				verdict.ValueA, verdict.ValueB, verdict.Detail,
			})
		}
	}
	return writeRows(workbook, verdictsSheet, rows)
}

func writeRows(workbook *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell reference: %w", err)
		}
		if err := workbook.SetSheetRow(sheet, ref, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// Package tabular pre-parses spreadsheet claim data into the canonical
// field mapping without touching the paid extraction backend. Two layouts
// are recognized: a header row of field names with values beneath it, and
// two-column key/value rows.
package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

var fieldNameNoise = regexp.MustCompile(`[^a-z0-9]+`)

type Extractor struct {
	log *slog.Logger
}

func NewExtractor(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{log: log}
}

func (e *Extractor) Extract(ctx context.Context, handle domain.DocumentHandle, fields []string) (domain.ExtractedFields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if handle.Kind != domain.MediaSpreadsheet {
		return nil, domain.NewExtractionError(handle.Filename, domain.ReasonUnsupported,
			fmt.Errorf("tabular extractor handles spreadsheets, got %s", handle.Kind))
	}

	rows, err := e.readRows(handle)
	if err != nil {
		return nil, err
	}
	extracted := mapRows(rows, fields)
	e.log.Debug("spreadsheet parsed",
		"filename", handle.Filename,
		"rows", len(rows),
		"fields", len(extracted),
	)
	return extracted, nil
}

func (e *Extractor) readRows(handle domain.DocumentHandle) ([][]string, error) {
	switch strings.ToLower(path.Ext(handle.Filename)) {
	case ".csv":
		reader := csv.NewReader(bytes.NewReader(handle.Data))
		reader.FieldsPerRecord = -1
		var rows [][]string
		for {
			record, err := reader.Read()
			if err == io.EOF {
				return rows, nil
			}
			if err != nil {
				return nil, domain.NewExtractionError(handle.Filename, domain.ReasonUnreadable, err)
			}
			rows = append(rows, record)
		}
	case ".xlsx", ".xlsm":
		workbook, err := excelize.OpenReader(bytes.NewReader(handle.Data))
		if err != nil {
			return nil, domain.NewExtractionError(handle.Filename, domain.ReasonUnreadable, err)
		}
		defer workbook.Close()

		sheets := workbook.GetSheetList()
		if len(sheets) == 0 {
			return nil, domain.NewExtractionError(handle.Filename, domain.ReasonUnreadable,
				fmt.Errorf("workbook has no sheets"))
		}
		rows, err := workbook.GetRows(sheets[0])
		if err != nil {
			return nil, domain.NewExtractionError(handle.Filename, domain.ReasonUnreadable, err)
		}
		return rows, nil
	default:
		return nil, domain.NewExtractionError(handle.Filename, domain.ReasonUnsupported,
			fmt.Errorf("unsupported spreadsheet format %q", path.Ext(handle.Filename)))
	}
}

// mapRows tries the header layout first and falls back to key/value rows.
func mapRows(rows [][]string, fields []string) domain.ExtractedFields {
	wanted := make(map[string]string, len(fields))
	for _, field := range fields {
		wanted[foldFieldName(field)] = field
	}

	if extracted, ok := fromHeaderLayout(rows, wanted); ok {
		return extracted
	}
	return fromKeyValueLayout(rows, wanted)
}

func fromHeaderLayout(rows [][]string, wanted map[string]string) (domain.ExtractedFields, bool) {
	if len(rows) < 2 {
		return nil, false
	}
	header := rows[0]
	columns := make(map[int]string)
	for i, cell := range header {
		if field, ok := wanted[foldFieldName(cell)]; ok {
			columns[i] = field
		}
	}
	// A key/value sheet can have a canonical name in its first cell too;
	// only treat the first row as a header when it names several fields.
	if len(columns) < 2 {
		return nil, false
	}

	extracted := make(domain.ExtractedFields, len(columns))
	values := rows[1]
	for i, field := range columns {
		if i >= len(values) {
			continue
		}
		value := strings.TrimSpace(values[i])
		if value == "" {
			continue
		}
		extracted[field] = domain.FieldValue{Raw: value, Note: fmt.Sprintf("column %q", strings.TrimSpace(header[i]))}
	}
	return extracted, true
}

func fromKeyValueLayout(rows [][]string, wanted map[string]string) domain.ExtractedFields {
	extracted := make(domain.ExtractedFields)
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		field, ok := wanted[foldFieldName(row[0])]
		if !ok {
			continue
		}
		value := strings.TrimSpace(row[1])
		if value == "" {
			continue
		}
		if _, seen := extracted[field]; seen {
			continue
		}
		extracted[field] = domain.FieldValue{Raw: value, Note: fmt.Sprintf("row %q", strings.TrimSpace(row[0]))}
	}
	return extracted
}

func foldFieldName(name string) string {
	return strings.Trim(fieldNameNoise.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

package domain

type MediaKind string

const (
	MediaPDF         MediaKind = "pdf"
	MediaSpreadsheet MediaKind = "spreadsheet"
)

// DocumentHandle is one uploaded file. Immutable once built; the batch
// orchestrator owns it for the duration of a run.
type DocumentHandle struct {
	Filename string
	Kind     MediaKind
	Data     []byte
}

// ClaimPair is a PDF handle and a spreadsheet handle that share the same
// normalized base name.
type ClaimPair struct {
	Key   string
	PDF   DocumentHandle
	Sheet DocumentHandle
}

// FieldValue is one extracted field: the raw value plus an optional note
// about its source or confidence.
type FieldValue struct {
	Raw  string `json:"raw"`
	Note string `json:"note,omitempty"`
}

// ExtractedFields maps canonical field name to the value found in one
// document. A field absent from the document is absent from the map.
// Never mutated after the extractor returns it.
type ExtractedFields map[string]FieldValue

type VerdictStatus string

const (
	VerdictMatch       VerdictStatus = "MATCH"
	VerdictMismatch    VerdictStatus = "MISMATCH"
	VerdictMissingA    VerdictStatus = "MISSING_A"
	VerdictMissingB    VerdictStatus = "MISSING_B"
	VerdictMissingBoth VerdictStatus = "MISSING_BOTH"
)

// FieldVerdict is the comparison outcome for one canonical field within one
// pair. Raw values from both sides are preserved for manual inspection.
type FieldVerdict struct {
	Field  string        `json:"field"`
	ValueA string        `json:"value_a"`
	ValueB string        `json:"value_b"`
	Status VerdictStatus `json:"status"`
	Detail string        `json:"detail,omitempty"`
}

type PairStatus string

const (
	PairClean            PairStatus = "CLEAN"
	PairFlagged          PairStatus = "FLAGGED"
	PairExtractionFailed PairStatus = "EXTRACTION_FAILED"
)

// PairResult is the outcome for one claim pair.
type PairResult struct {
	Key         string         `json:"key"`
	PDFName     string         `json:"pdf_name"`
	SheetName   string         `json:"sheet_name"`
	Status      PairStatus     `json:"status"`
	Verdicts    []FieldVerdict `json:"verdicts,omitempty"`
	FailureNote string         `json:"failure_note,omitempty"`
}

// DuplicateName records a data-integrity finding from matching: several
// filenames on one side collapsed to the same pair key. The first-seen
// filename was used for pairing; the rest are listed here.
type DuplicateName struct {
	Key     string   `json:"key"`
	Side    string   `json:"side"`
	Used    string   `json:"used"`
	Skipped []string `json:"skipped"`
}

type Summary struct {
	TotalPairs int `json:"total_pairs"`
	Clean      int `json:"clean"`
	Flagged    int `json:"flagged"`
	Failed     int `json:"failed"`
}

// BatchReport is the final artifact of one reconciliation run. Read-only
// once the orchestrator returns it.
type BatchReport struct {
	BatchID         string          `json:"batch_id"`
	Pairs           []PairResult    `json:"pairs"`
	UnmatchedPDFs   []string        `json:"unmatched_pdfs,omitempty"`
	UnmatchedSheets []string        `json:"unmatched_sheets,omitempty"`
	Duplicates      []DuplicateName `json:"duplicates,omitempty"`
	Warnings        []string        `json:"warnings,omitempty"`
	Summary         Summary         `json:"summary"`
}

package usecase

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

// Filename suffixes that carry no pairing information; the same claim is
// often uploaded as "claim_001_invoice.pdf" next to "claim_001.xlsx".
var pairKeySuffixes = []string{"invoice", "claim", "statement"}

var separatorRuns = regexp.MustCompile(`[^a-z0-9]+`)

// PairKey derives the normalized base name shared by both documents of a
// claim: extension and known suffixes stripped, lower-cased, separator runs
// collapsed, edge noise trimmed. "Claim_001.PDF", "claim 001.pdf" and
// "claim-001.xlsx" all produce "claim_001".
func PairKey(filename string) string {
	base := path.Base(filename)
	name := strings.TrimSuffix(base, path.Ext(base))
	key := separatorRuns.ReplaceAllString(strings.ToLower(name), "_")
	key = strings.Trim(key, "_")
	for _, suffix := range pairKeySuffixes {
		if trimmed := strings.TrimSuffix(key, "_"+suffix); trimmed != key {
			key = trimmed
			break
		}
	}
	return key
}

// MatchResult is the outcome of pairing two unordered upload sets.
type MatchResult struct {
	Pairs           []domain.ClaimPair
	UnmatchedPDFs   []string
	UnmatchedSheets []string
	Duplicates      []domain.DuplicateName
	Warnings        []string
}

// MatchFilenames pairs the two unordered collections by PairKey. Keys seen
// on exactly one side land in an unmatched list; several filenames behind
// one key on one side are a duplicate finding (first-seen filename used,
// rest reported). Pairing never fails: whatever cannot be matched is
// surfaced in the result and the rest proceeds.
func MatchFilenames(pdfs, sheets []domain.DocumentHandle) MatchResult {
	var result MatchResult
	if len(pdfs) != len(sheets) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("input count mismatch: %d PDF files vs %d spreadsheet files", len(pdfs), len(sheets)))
	}

	pdfByKey := indexSide(pdfs, "pdf", &result)
	sheetByKey := indexSide(sheets, "spreadsheet", &result)

	keys := make([]string, 0, len(pdfByKey))
	for key := range pdfByKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		pdf := pdfByKey[key]
		sheet, ok := sheetByKey[key]
		if !ok {
			result.UnmatchedPDFs = append(result.UnmatchedPDFs, pdf.Filename)
			continue
		}
		result.Pairs = append(result.Pairs, domain.ClaimPair{Key: key, PDF: pdf, Sheet: sheet})
	}

	sheetKeys := make([]string, 0, len(sheetByKey))
	for key := range sheetByKey {
		if _, ok := pdfByKey[key]; !ok {
			sheetKeys = append(sheetKeys, key)
		}
	}
	sort.Strings(sheetKeys)
	for _, key := range sheetKeys {
		result.UnmatchedSheets = append(result.UnmatchedSheets, sheetByKey[key].Filename)
	}

	return result
}

// indexSide maps pair key to the first-seen handle per key, recording
// every later arrival as a duplicate for the caller to resolve manually.
func indexSide(handles []domain.DocumentHandle, side string, result *MatchResult) map[string]domain.DocumentHandle {
	byKey := make(map[string]domain.DocumentHandle, len(handles))
	duplicates := make(map[string]*domain.DuplicateName)
	for _, handle := range handles {
		key := PairKey(handle.Filename)
		first, seen := byKey[key]
		if !seen {
			byKey[key] = handle
			continue
		}
		dup, ok := duplicates[key]
		if !ok {
			dup = &domain.DuplicateName{Key: key, Side: side, Used: first.Filename}
			duplicates[key] = dup
		}
		dup.Skipped = append(dup.Skipped, handle.Filename)
	}

	dupKeys := make([]string, 0, len(duplicates))
	for key := range duplicates {
		dupKeys = append(dupKeys, key)
	}
	sort.Strings(dupKeys)
	for _, key := range dupKeys {
		dup := duplicates[key]
		sort.Strings(dup.Skipped)
		result.Duplicates = append(result.Duplicates, *dup)
	}
	return byKey
}

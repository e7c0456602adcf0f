package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
	"github.com/kirillkom/claims-reconciler/internal/core/ports"
)

const (
	defaultConcurrency    = 1
	defaultExtractTimeout = 2 * time.Minute
)

// RunBatchConfig bounds the run: how many pairs may be in flight at once
// and how long a single extraction call may block.
type RunBatchConfig struct {
	Concurrency    int
	ExtractTimeout time.Duration
}

// RunBatchUseCase drives the pipeline over all matched pairs: match, extract
// both sides, compare, aggregate. A pair failure never aborts the batch.
type RunBatchUseCase struct {
	pdfExtractor   ports.FieldExtractor
	sheetExtractor ports.FieldExtractor
	comparator     *Comparator
	progress       ports.ProgressSink
	log            *slog.Logger

	concurrency    int
	extractTimeout time.Duration
}

func NewRunBatchUseCase(
	pdfExtractor ports.FieldExtractor,
	sheetExtractor ports.FieldExtractor,
	comparator *Comparator,
	progress ports.ProgressSink,
	log *slog.Logger,
	cfg RunBatchConfig,
) *RunBatchUseCase {
	if comparator == nil {
		comparator = NewComparator(nil, nil)
	}
	if progress == nil {
		progress = nopProgress{}
	}
	if log == nil {
		log = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	timeout := cfg.ExtractTimeout
	if timeout <= 0 {
		timeout = defaultExtractTimeout
	}
	return &RunBatchUseCase{
		pdfExtractor:   pdfExtractor,
		sheetExtractor: sheetExtractor,
		comparator:     comparator,
		progress:       progress,
		log:            log,
		concurrency:    concurrency,
		extractTimeout: timeout,
	}
}

// Run reconciles the two upload sets into a BatchReport. Cancellation stops
// scheduling new pairs; pairs already in flight finish and their results are
// kept. Report order follows matcher order regardless of completion order.
func (uc *RunBatchUseCase) Run(ctx context.Context, pdfs, sheets []domain.DocumentHandle) (*domain.BatchReport, error) {
	batchID := uuid.NewString()
	log := uc.log.With("batch_id", batchID)

	match := MatchFilenames(pdfs, sheets)
	for _, warning := range match.Warnings {
		log.Warn("batch warning", "warning", warning)
	}
	log.Info("matched upload sets",
		"pairs", len(match.Pairs),
		"unmatched_pdfs", len(match.UnmatchedPDFs),
		"unmatched_sheets", len(match.UnmatchedSheets),
		"duplicates", len(match.Duplicates),
	)

	report := &domain.BatchReport{
		BatchID:         batchID,
		UnmatchedPDFs:   match.UnmatchedPDFs,
		UnmatchedSheets: match.UnmatchedSheets,
		Duplicates:      match.Duplicates,
		Warnings:        match.Warnings,
	}

	results := make([]domain.PairResult, len(match.Pairs))
	scheduled := 0

	group := new(errgroup.Group)
	group.SetLimit(uc.concurrency)
	total := len(match.Pairs)
	for i, pair := range match.Pairs {
		if ctx.Err() != nil {
			break
		}
		scheduled++
		group.Go(func() error {
			uc.progress.PairStarted(pair.Key, i+1, total)
			result := uc.processPair(ctx, pair)
			results[i] = result
			uc.progress.PairFinished(pair.Key, result.Status)
			return nil
		})
	}
	_ = group.Wait()

	if scheduled < total {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("run cancelled: %d of %d pairs processed", scheduled, total))
		log.Warn("run cancelled", "processed", scheduled, "total", total)
	}

	report.Pairs = results[:scheduled]
	report.Summary = summarize(report.Pairs)
	log.Info("batch finished",
		"total", report.Summary.TotalPairs,
		"clean", report.Summary.Clean,
		"flagged", report.Summary.Flagged,
		"failed", report.Summary.Failed,
	)
	return report, nil
}

// processPair runs both extractions and the comparison for one pair. Any
// failure, including a panicking extractor, is contained in the returned
// result.
func (uc *RunBatchUseCase) processPair(ctx context.Context, pair domain.ClaimPair) (result domain.PairResult) {
	result = domain.PairResult{
		Key:       pair.Key,
		PDFName:   pair.PDF.Filename,
		SheetName: pair.Sheet.Filename,
	}
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error("pair processing panic", "key", pair.Key, "panic", r)
			result.Status = domain.PairExtractionFailed
			result.FailureNote = fmt.Sprintf("internal error: %v", r)
		}
	}()

	fieldNames := domain.FieldNames(uc.comparator.Fields())
	fieldsA, errA := uc.extract(ctx, uc.pdfExtractor, pair.PDF, fieldNames)
	fieldsB, errB := uc.extract(ctx, uc.sheetExtractor, pair.Sheet, fieldNames)
	if errA != nil || errB != nil {
		result.Status = domain.PairExtractionFailed
		result.FailureNote = failureNote(errA, errB)
		uc.log.Warn("pair extraction failed", "key", pair.Key, "note", result.FailureNote)
		return result
	}

	result.Verdicts = uc.comparator.Compare(fieldsA, fieldsB)
	result.Status = uc.comparator.Status(result.Verdicts)
	return result
}

// extract calls the capability with a bounded wait. A deadline hit is the
// same failure as any other extraction error.
func (uc *RunBatchUseCase) extract(ctx context.Context, extractor ports.FieldExtractor, handle domain.DocumentHandle, fields []string) (domain.ExtractedFields, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.extractTimeout)
	defer cancel()

	extracted, err := extractor.Extract(callCtx, handle, fields)
	if err == nil {
		return extracted, nil
	}
	if _, ok := domain.AsExtractionError(err); ok {
		return nil, err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, domain.NewExtractionError(handle.Filename, domain.ReasonTimeout, err)
	}
	return nil, domain.NewExtractionError(handle.Filename, domain.ReasonBackend, err)
}

func failureNote(errA, errB error) string {
	switch {
	case errA != nil && errB != nil:
		return fmt.Sprintf("%v; %v", errA, errB)
	case errA != nil:
		return errA.Error()
	default:
		return errB.Error()
	}
}

func summarize(pairs []domain.PairResult) domain.Summary {
	summary := domain.Summary{TotalPairs: len(pairs)}
	for _, pair := range pairs {
		switch pair.Status {
		case domain.PairClean:
			summary.Clean++
		case domain.PairFlagged:
			summary.Flagged++
		case domain.PairExtractionFailed:
			summary.Failed++
		}
	}
	return summary
}

type nopProgress struct{}

func (nopProgress) PairStarted(string, int, int)           {}
func (nopProgress) PairFinished(string, domain.PairStatus) {}

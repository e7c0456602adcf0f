package ports

import (
	"context"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

// FieldExtractor is the extraction capability boundary. One call, two
// outcomes: a field-addressable mapping for the requested canonical fields,
// or a *domain.ExtractionError. Each call is atomic from the caller's view;
// returned mappings are never mutated afterwards.
type FieldExtractor interface {
	Extract(ctx context.Context, handle domain.DocumentHandle, fields []string) (domain.ExtractedFields, error)
}

// ProgressSink receives per-pair progress while a batch runs. Implementations
// must tolerate concurrent calls from different pairs.
type ProgressSink interface {
	PairStarted(key string, index, total int)
	PairFinished(key string, status domain.PairStatus)
}

// ReportSink renders a finished batch report to its output artifact.
type ReportSink interface {
	Write(report *domain.BatchReport) error
}

// BatchRunner is the inbound contract for one reconciliation run.
type BatchRunner interface {
	Run(ctx context.Context, pdfs, sheets []domain.DocumentHandle) (*domain.BatchReport, error)
}

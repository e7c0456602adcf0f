// Package pdfinfo screens PDF bytes locally before they reach the paid
// extraction backend: a file the parser cannot open becomes an unreadable
// extraction failure without a network call.
package pdfinfo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
	"github.com/kirillkom/claims-reconciler/internal/core/ports"
)

type Gate struct {
	next ports.FieldExtractor
	log  *slog.Logger
}

func NewGate(next ports.FieldExtractor, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{next: next, log: log}
}

func (g *Gate) Extract(ctx context.Context, handle domain.DocumentHandle, fields []string) (domain.ExtractedFields, error) {
	if handle.Kind == domain.MediaPDF {
		if err := Check(handle.Data); err != nil {
			g.log.Warn("rejecting unreadable pdf before backend call",
				"filename", handle.Filename, "error", err)
			return nil, domain.NewExtractionError(handle.Filename, domain.ReasonUnreadable, err)
		}
	}
	return g.next.Extract(ctx, handle, fields)
}

// Check opens the PDF structure and requires at least one page. The parser
// panics on some malformed files, so that is contained here too.
func Check(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	if len(data) == 0 {
		return errors.New("empty file")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}
	if reader.NumPage() < 1 {
		return errors.New("pdf has no pages")
	}
	return nil
}

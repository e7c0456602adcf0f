package pdfinfo

import (
	"context"
	"testing"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

type nextFake struct {
	called bool
}

func (f *nextFake) Extract(context.Context, domain.DocumentHandle, []string) (domain.ExtractedFields, error) {
	f.called = true
	return domain.ExtractedFields{}, nil
}

func TestGateRejectsGarbagePDFWithoutBackendCall(t *testing.T) {
	next := &nextFake{}
	gate := NewGate(next, nil)

	_, err := gate.Extract(context.Background(),
		domain.DocumentHandle{Filename: "bad.pdf", Kind: domain.MediaPDF, Data: []byte("this is not a pdf")},
		[]string{"policy_number"})

	extractionErr, ok := domain.AsExtractionError(err)
	if !ok {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if extractionErr.Reason != domain.ReasonUnreadable {
		t.Fatalf("expected unreadable reason, got %s", extractionErr.Reason)
	}
	if next.called {
		t.Fatalf("backend must not be called for an unreadable file")
	}
}

func TestGateRejectsEmptyPDF(t *testing.T) {
	next := &nextFake{}
	gate := NewGate(next, nil)

	_, err := gate.Extract(context.Background(),
		domain.DocumentHandle{Filename: "empty.pdf", Kind: domain.MediaPDF},
		[]string{"policy_number"})
	if _, ok := domain.AsExtractionError(err); !ok {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if next.called {
		t.Fatalf("backend must not be called for an empty file")
	}
}

func TestGatePassesNonPDFHandlesThrough(t *testing.T) {
	next := &nextFake{}
	gate := NewGate(next, nil)

	_, err := gate.Extract(context.Background(),
		domain.DocumentHandle{Filename: "a.xlsx", Kind: domain.MediaSpreadsheet, Data: []byte("x")},
		[]string{"policy_number"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !next.called {
		t.Fatalf("expected pass-through for spreadsheet handles")
	}
}

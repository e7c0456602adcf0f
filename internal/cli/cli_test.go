package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCmd(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "reconcile version") {
		t.Fatalf("unexpected version output: %q", out)
	}
}

func TestRunCommandRequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := executeCmd(t, "run", "--pdf-dir", t.TempDir(), "--sheet-dir", t.TempDir())
	if err == nil {
		t.Fatal("expected error without API key")
	}
	if !domain.IsKind(err, domain.ErrMissingCredential) {
		t.Fatalf("expected missing-credential error, got %v", err)
	}
}

func TestRunCommandRequiresDirectories(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	_, err := executeCmd(t, "run")
	if err == nil {
		t.Fatal("expected error without directories")
	}
}

func TestRunCommandReportsUnreadablePDF(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("LOG_LEVEL", "error")

	pdfDir := t.TempDir()
	sheetDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(pdfDir, "claim_100.pdf"), []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	sheet := "Policy Number,POL-100\nInsured Name,Jane Roe\nAmount,1200.00\n"
	if err := os.WriteFile(filepath.Join(sheetDir, "claim_100.csv"), []byte(sheet), 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}

	out, err := executeCmd(t, "run", "--pdf-dir", pdfDir, "--sheet-dir", sheetDir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "claim_100") {
		t.Fatalf("expected pair key in report, got:\n%s", out)
	}
	if !strings.Contains(out, string(domain.PairExtractionFailed)) {
		t.Fatalf("expected extraction failure in report, got:\n%s", out)
	}
	if !strings.Contains(out, "Summary: 1 pairs, 0 clean, 0 flagged, 1 extraction-failed") {
		t.Fatalf("unexpected summary, got:\n%s", out)
	}
}

// Package fsload is the input boundary for CLI runs: it turns a directory
// of files into the immutable document handles the orchestrator consumes.
package fsload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

// Legacy .xls files are loaded too: the tabular adapter cannot parse them,
// but rejecting them there marks the pair EXTRACTION_FAILED in the report
// instead of silently dropping the file here.
var extensionsByKind = map[domain.MediaKind][]string{
	domain.MediaPDF:         {".pdf"},
	domain.MediaSpreadsheet: {".xlsx", ".xlsm", ".xls", ".csv"},
}

// LoadDir reads every file in dir with an extension accepted for kind.
// Other files are skipped with a log line, not an error. Handles come back
// sorted by filename so runs are reproducible.
func LoadDir(dir string, kind domain.MediaKind, log *slog.Logger) ([]domain.DocumentHandle, error) {
	if log == nil {
		log = slog.Default()
	}
	accepted, ok := extensionsByKind[kind]
	if !ok {
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var handles []domain.DocumentHandle
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !hasAcceptedExtension(name, accepted) {
			log.Debug("skipping file with unexpected extension", "dir", dir, "filename", name, "kind", kind)
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		handles = append(handles, domain.DocumentHandle{Filename: name, Kind: kind, Data: data})
	}

	sort.Slice(handles, func(i, j int) bool { return handles[i].Filename < handles[j].Filename })
	return handles, nil
}

func hasAcceptedExtension(name string, accepted []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range accepted {
		if ext == candidate {
			return true
		}
	}
	return false
}

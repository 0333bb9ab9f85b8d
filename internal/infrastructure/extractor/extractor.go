// Package extractor turns stored upload blobs into plain text for the
// processing pipeline. Unsupported or unreadable content yields empty text,
// not an error: the pipeline then classifies on the filename alone.
package extractor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/transitdocs/doctrack/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, storageKey, fileType string) (string, error) {
	reader, err := e.storage.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("open blob: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read blob: %w", err)
	}

	switch normalizeFileType(fileType) {
	case "pdf":
		return extractPDF(raw)
	case "xlsx", "xls":
		return extractSpreadsheet(raw)
	default:
		return extractPlainText(raw), nil
	}
}

func extractPlainText(raw []byte) string {
	if !utf8.Valid(raw) {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func normalizeFileType(fileType string) string {
	t := strings.ToLower(strings.TrimSpace(fileType))
	t = strings.TrimPrefix(t, ".")
	switch t {
	case "application/pdf":
		return "pdf"
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return "xlsx"
	default:
		return t
	}
}

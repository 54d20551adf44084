// Package parser adapts raw resume documents into plain text plus
// layout spans. Real OCR/PDF extraction is an external collaborator;
// this package handles the text-bearing kinds the pipeline accepts and
// rejects everything else up front.
package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tailorflow/tailorflow/internal/models"
)

// Document kinds accepted by Parse.
const (
	KindText     = "txt"
	KindMarkdown = "md"
)

// Document is the parser output: normalized text and line-oriented
// layout spans with byte offsets into Text.
type Document struct {
	Text  string
	Spans []models.LayoutSpan
}

// Parse converts document bytes of the given kind into a Document.
// Returns models.ErrUnsupportedFormat for unrecognized kinds and
// models.ErrParse when the bytes cannot be decoded as text.
func Parse(data []byte, kind string) (*Document, error) {
	switch kind {
	case KindText, KindMarkdown:
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, kind)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid UTF-8", models.ErrParse)
	}

	text := normalize(string(data))
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty document", models.ErrParse)
	}

	doc := &Document{Text: text}
	offset := 0
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) != "" {
			content := trimmed
			if kind == KindMarkdown {
				content = stripMarkdown(trimmed)
			}
			doc.Spans = append(doc.Spans, models.LayoutSpan{
				Start: offset,
				End:   offset + len(line),
				Text:  content,
				Line:  i,
			})
		}
		offset += len(line) + 1
	}
	return doc, nil
}

// normalize unifies line endings and strips BOM.
func normalize(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// stripMarkdown removes heading markers, emphasis and list bullets so
// downstream extraction sees plain content. Offsets still reference the
// original text.
func stripMarkdown(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "#")
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(s)
}

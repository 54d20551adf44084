package parser

import (
	"errors"
	"testing"

	"github.com/tailorflow/tailorflow/internal/models"
)

func TestParse_Text(t *testing.T) {
	doc, err := Parse([]byte("Jane Doe\n\njane@example.com\n"), KindText)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(doc.Spans) != 2 {
		t.Fatalf("got %d spans, want 2 (blank lines skipped)", len(doc.Spans))
	}
	if doc.Spans[0].Text != "Jane Doe" || doc.Spans[0].Line != 0 {
		t.Errorf("span[0] = %+v", doc.Spans[0])
	}
	if doc.Spans[1].Text != "jane@example.com" || doc.Spans[1].Line != 2 {
		t.Errorf("span[1] = %+v", doc.Spans[1])
	}
	// Offsets reference the original text.
	if got := doc.Text[doc.Spans[1].Start:doc.Spans[1].End]; got != "jane@example.com" {
		t.Errorf("offset slice = %q", got)
	}
}

func TestParse_MarkdownStripped(t *testing.T) {
	src := "# Jane Doe\n\n## Experience\n\n- Built **fast** services\n"
	doc, err := Parse([]byte(src), KindMarkdown)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{"Jane Doe", "Experience", "Built fast services"}
	if len(doc.Spans) != len(want) {
		t.Fatalf("got %d spans, want %d", len(doc.Spans), len(want))
	}
	for i, w := range want {
		if doc.Spans[i].Text != w {
			t.Errorf("span[%d].Text = %q, want %q", i, doc.Spans[i].Text, w)
		}
	}
}

func TestParse_BOMStripped(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Jane Doe\n")...)
	doc, err := Parse(data, KindText)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(doc.Spans))
	}
	if doc.Spans[0].Text != "Jane Doe" {
		t.Errorf("span[0].Text = %q, want %q", doc.Spans[0].Text, "Jane Doe")
	}
	if doc.Spans[0].Start != 0 {
		t.Errorf("span[0].Start = %d, want 0", doc.Spans[0].Start)
	}
}

func TestParse_CRLFNormalized(t *testing.T) {
	doc, err := Parse([]byte("a\r\nb\r\n"), KindText)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Spans) != 2 {
		t.Errorf("got %d spans, want 2", len(doc.Spans))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		kind string
		want error
	}{
		{"unknown kind", []byte("text"), "pdf", models.ErrUnsupportedFormat},
		{"invalid utf8", []byte{0xff, 0xfe, 0xfd}, KindText, models.ErrParse},
		{"empty document", []byte("   \n \n"), KindText, models.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data, tt.kind)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

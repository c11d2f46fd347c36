package uploads

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"VectorConsole/backend/go/internal/console_service/uploads/pdftest"
)

func TestInspect_AcceptsPDF(t *testing.T) {
	data := pdftest.Minimal(3)
	info, err := Inspect(" report.pdf ", bytes.NewReader(data), int64(len(data)), 0)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.Pages != 3 || info.MIME != "application/pdf" || info.Name != "report.pdf" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestInspect_Rejects(t *testing.T) {
	pdf := pdftest.Minimal(1)
	text := []byte(strings.Repeat("plain text, not a document. ", 10))
	broken := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("garbage "), 30)...)

	tests := []struct {
		name    string
		data    []byte
		size    int64
		maxSize int64
		want    error
	}{
		{"empty", nil, 0, 0, ErrEmptyFile},
		{"too large", pdf, int64(len(pdf)), 10, ErrFileTooLarge},
		{"not a pdf", text, int64(len(text)), 0, ErrNotPDF},
		{"pdf header only", broken, int64(len(broken)), 0, ErrUnreadablePDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect("x.pdf", bytes.NewReader(tt.data), tt.size, tt.maxSize)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

package pdf

import (
	"testing"

	"skillparse/internal/errors"
)

func TestExtractTextRejectsNonPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", nil},
		{"plain text", []byte("this is not a pdf")},
		{"truncated header", []byte("%PDF-1.7")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.data)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.IsTextExtraction(err) {
				t.Errorf("expected TEXT_EXTRACTION_FAILED, got %v", err)
			}
		})
	}
}

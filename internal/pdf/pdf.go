// Package pdf converts uploaded PDF bytes into plain text for the extraction
// pipeline. The conversion itself is treated as a black box; the only
// contract is text out or a text-extraction error.
package pdf

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"skillparse/internal/errors"
)

// ExtractText pulls the text layer out of a PDF document, page by page.
// It fails with a TEXT_EXTRACTION_FAILED error when the bytes are not a
// readable PDF or when no text is recoverable from any page.
func ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeTextExtraction,
			"Failed to open PDF document", err)
	}

	var content strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		// Pages with a broken text layer are skipped rather than failing
		// the whole document.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		content.WriteString(text)
		content.WriteString("\n")
	}

	extracted := strings.TrimSpace(content.String())
	if extracted == "" {
		return "", errors.NewIOError(errors.ErrCodeTextExtraction,
			"No extractable text layer found in PDF", nil)
	}

	return extracted, nil
}

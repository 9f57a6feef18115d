package evaluation

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// Extractor converts document bytes into plain text.
type Extractor interface {
	Extract(ctx context.Context, document []byte) (string, error)
}

// PDFExtractor extracts the text layer of PDF documents.
type PDFExtractor struct{}

// NewPDFExtractor constructs a PDF text extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns the concatenated plain text of every page. Anything that is
// not a readable PDF with a text layer fails with ErrUnreadableDocument.
func (e *PDFExtractor) Extract(ctx context.Context, document []byte) (text string, err error) {
	if len(document) == 0 {
		return "", unreadable("empty document", nil)
	}

	if detected := mimetype.Detect(document); !detected.Is("application/pdf") {
		return "", unreadable(fmt.Sprintf("unsupported content type %s", detected.String()), nil)
	}

	// the pdf package panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = unreadable("malformed pdf", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return "", unreadable("open pdf", err)
	}

	var builder strings.Builder
	for index := 1; index <= reader.NumPage(); index++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(index)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	text = strings.TrimSpace(builder.String())
	if text == "" {
		return "", unreadable("no text content found", nil)
	}

	return text, nil
}

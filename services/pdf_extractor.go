package services

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minExtractedChars rejects PDFs that yield almost no text; those are
// typically scanned images and need OCR, which this service does not do.
const minExtractedChars = 50

// PDFExtractor pulls plain text out of syllabus PDFs using ledongthuc/pdf.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// sanitizePDF truncates trailing garbage after the last %%EOF marker.
// Syllabi downloaded from LMS portals often carry HTML appended after the
// PDF body, which trips the parser.
func sanitizePDF(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}

	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)
	if lastEOF == -1 {
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)
	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}

	if extra := len(content) - pdfEnd; extra > 10 {
		log.Printf("[PDF Extractor] Removing %d bytes of trailing garbage after %%EOF", extra)
		return content[:pdfEnd]
	}
	return content
}

// ExtractText extracts all text from PDF bytes, page by page. Row-based
// extraction is tried first because it preserves the line structure the
// schedule-table segmentation depends on.
func (p *PDFExtractor) ExtractText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF content")
	}

	content = sanitizePDF(content)

	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	numPages := pdfReader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var textBuilder strings.Builder

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			log.Printf("[PDF Extractor] Page %d is null, skipping", i)
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			text, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				log.Printf("[PDF Extractor] Page %d unextractable: %v", i, plainErr)
				continue
			}
			textBuilder.WriteString(text)
			textBuilder.WriteString("\n")
			continue
		}

		for _, row := range rows {
			var rowText strings.Builder
			for _, word := range row.Content {
				rowText.WriteString(word.S)
			}
			if line := strings.TrimSpace(rowText.String()); line != "" {
				textBuilder.WriteString(line)
				textBuilder.WriteString("\n")
			}
		}
		textBuilder.WriteString("\n")
	}

	extracted := strings.TrimSpace(textBuilder.String())
	if len(extracted) < minExtractedChars {
		return "", fmt.Errorf("insufficient text extracted from PDF (only %d characters) - PDF may be scanned and require OCR", len(extracted))
	}

	log.Printf("[PDF Extractor] Extracted %d characters from %d pages", len(extracted), numPages)
	return extracted, nil
}

// GetPageCount returns the number of pages without extracting text.
func (p *PDFExtractor) GetPageCount(content []byte) (int, error) {
	if len(content) == 0 {
		return 0, fmt.Errorf("empty PDF content")
	}

	content = sanitizePDF(content)
	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return pdfReader.NumPage(), nil
}

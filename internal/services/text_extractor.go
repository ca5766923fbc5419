package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"github.com/HasnainAli47/ResumeParser/internal/logger"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

// IsSupportedExtension reports whether name carries an extension the
// extractor can read. The comparison ignores case.
func IsSupportedExtension(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

type TextExtractor interface {
	ExtractText(path string) (string, error)
}

type textExtractor struct {
	ocr     OCREngine
	readPDF func(path string) (string, error)
}

// NewTextExtractor reads the PDF text layer first and falls back to ocr
// when that layer is blank. A nil ocr disables the fallback.
func NewTextExtractor(ocr OCREngine) TextExtractor {
	return &textExtractor{
		ocr:     ocr,
		readPDF: readPDFTextLayer,
	}
}

// ExtractText dispatches on the file extension. Unsupported extensions
// return an empty string and ErrUnsupportedFormat.
func (t *textExtractor) ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return t.extractPDF(path)
	case ".docx":
		return t.extractDOCX(path)
	default:
		return "", fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
}

func (t *textExtractor) extractPDF(path string) (string, error) {
	text, err := t.readPDF(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" || t.ocr == nil {
		return text, nil
	}

	logger.Info().Str("file", filepath.Base(path)).Msg("🔍 No text layer found, running OCR")

	text, err = t.ocr.RecognizePDF(path)
	if err != nil {
		return "", fmt.Errorf("failed to OCR PDF: %w", err)
	}

	return CleanText(text), nil
}

func readPDFTextLayer(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	totalPage := r.NumPage()
	pages := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read PDF page %d: %w", pageIndex, err)
		}
		pages = append(pages, text)
	}

	return CleanText(strings.Join(pages, "\n")), nil
}

func (t *textExtractor) extractDOCX(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer f.Close()

	body, _, err := docconv.ConvertDocx(f)
	if err != nil {
		return "", fmt.Errorf("failed to convert DOCX: %w", err)
	}

	return CleanText(body), nil
}

// CleanText trims every line and drops the blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

//go:build ocr

package services

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"github.com/HasnainAli47/ResumeParser/internal/config"
)

// tesseractEngine rasterizes pages with MuPDF and reads them with Tesseract.
type tesseractEngine struct {
	language string
	dpi      float64
}

func newOCREngine(cfg config.OCRConfig) (OCREngine, error) {
	language := cfg.Language
	if language == "" {
		language = "eng"
	}

	return &tesseractEngine{
		language: language,
		dpi:      float64(cfg.DPI),
	}, nil
}

func (e *tesseractEngine) RecognizePDF(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF for OCR: %w", err)
	}
	defer doc.Close()

	// A gosseract client is not safe for concurrent use, so each call owns one.
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, e.dpi)
		if err != nil {
			return "", fmt.Errorf("failed to render PDF page %d: %w", n+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return "", fmt.Errorf("failed to encode PDF page %d: %w", n+1, err)
		}

		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			return "", fmt.Errorf("failed to load PDF page %d: %w", n+1, err)
		}

		text, err := client.Text()
		if err != nil {
			return "", fmt.Errorf("failed to recognize PDF page %d: %w", n+1, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return strings.Join(pages, "\n"), nil
}

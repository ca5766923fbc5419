package services

import (
	"errors"

	"github.com/HasnainAli47/ResumeParser/internal/config"
)

var ErrOCRUnavailable = errors.New("ocr support not compiled in (build with -tags ocr)")

// OCREngine renders every page of a PDF and recognizes its text. Pages are
// joined with newlines in page order.
type OCREngine interface {
	RecognizePDF(path string) (string, error)
}

// NewOCREngine returns nil when OCR is disabled. Binaries built without the
// ocr tag return ErrOCRUnavailable if it is enabled.
func NewOCREngine(cfg config.OCRConfig) (OCREngine, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return newOCREngine(cfg)
}

//go:build !ocr

package services

import "github.com/HasnainAli47/ResumeParser/internal/config"

func newOCREngine(cfg config.OCRConfig) (OCREngine, error) {
	return nil, ErrOCRUnavailable
}

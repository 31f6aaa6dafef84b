// Package ocr turns scanned page images into hOCR files.
package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/gardar/djvuscan/internal/config"
	"github.com/gardar/djvuscan/internal/shell"
)

// ErrEngineUnavailable is returned for engines not compiled into this binary.
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// ErrNoOutput is returned when an engine finishes without producing hOCR.
var ErrNoOutput = errors.New("ocr produced no hOCR output")

// Engine recognizes a page image and writes <outBase>.hocr.
type Engine interface {
	// Name returns the engine name
	Name() string

	// Recognize runs OCR on image and returns the path of the hOCR file written
	Recognize(ctx context.Context, image, outBase string) (string, error)

	// Close releases engine resources
	Close() error
}

// New creates the engine selected by cfg.
func New(cfg config.OCRConfig, runner shell.Runner) (Engine, error) {
	switch cfg.Engine {
	case config.EngineTesseract, "":
		return NewTesseract(runner, cfg.TesseractPath, cfg.Language), nil
	case config.EngineGosseract:
		g, err := NewGosseract(cfg.Language)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.EngineDocumentAI:
		return NewDocumentAI(cfg.DocumentAI), nil
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", cfg.Engine)
	}
}

// HOCRPath returns the file an engine writes for outBase.
func HOCRPath(outBase string) string {
	return outBase + ".hocr"
}

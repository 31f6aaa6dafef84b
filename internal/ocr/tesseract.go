package ocr

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/gardar/djvuscan/internal/shell"
)

// Tesseract runs the tesseract command line tool.
type Tesseract struct {
	runner   shell.Runner
	binary   string
	language string
}

// NewTesseract creates an engine running binary through runner.
func NewTesseract(runner shell.Runner, binary, language string) *Tesseract {
	if binary == "" {
		binary = shell.Tesseract
	}
	return &Tesseract{runner: runner, binary: binary, language: language}
}

func (t *Tesseract) Name() string {
	return "tesseract"
}

func (t *Tesseract) Recognize(ctx context.Context, image, outBase string) (string, error) {
	if err := shell.RecognizeHOCR(ctx, t.runner, t.binary, image, outBase, t.language); err != nil {
		return "", fmt.Errorf("tesseract on %s: %w", image, err)
	}

	path := HOCRPath(outBase)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNoOutput, path, err)
	}
	log.Debug().Str("image", image).Str("hocr", path).Msg("Tesseract finished")
	return path, nil
}

func (t *Tesseract) Close() error {
	return nil
}

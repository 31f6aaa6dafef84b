//go:build !gosseract

package ocr

import (
	"context"
	"fmt"
)

// Gosseract is a stub for builds without libtesseract support
type Gosseract struct{}

// NewGosseract reports that the in-process engine was not compiled in.
func NewGosseract(language string) (*Gosseract, error) {
	return nil, fmt.Errorf("%w: gosseract (rebuild with -tags gosseract)", ErrEngineUnavailable)
}

func (g *Gosseract) Name() string {
	return "gosseract (unavailable)"
}

func (g *Gosseract) Recognize(ctx context.Context, image, outBase string) (string, error) {
	return "", fmt.Errorf("%w: gosseract", ErrEngineUnavailable)
}

func (g *Gosseract) Close() error {
	return nil
}

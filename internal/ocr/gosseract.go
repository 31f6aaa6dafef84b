//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// Gosseract runs tesseract in-process through libtesseract.
type Gosseract struct {
	client *gosseract.Client
}

// NewGosseract creates an in-process engine for language.
func NewGosseract(language string) (*Gosseract, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	return &Gosseract{client: client}, nil
}

func (g *Gosseract) Name() string {
	return "gosseract"
}

func (g *Gosseract) Recognize(ctx context.Context, image, outBase string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := g.client.SetImage(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	out, err := g.client.HOCRText()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	if out == "" {
		return "", ErrNoOutput
	}

	path := HOCRPath(outBase)
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (g *Gosseract) Close() error {
	return g.client.Close()
}

package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog/log"

	"github.com/gardar/djvuscan/internal/config"
	"github.com/gardar/djvuscan/pkg/gdocai"
)

// processFunc sends a document to a Document AI processor.
type processFunc func(ctx context.Context, content []byte, mimeType string, cfg *gdocai.Config) (*documentaipb.Document, error)

// DocumentAI recognizes pages with a Google Document AI OCR processor.
type DocumentAI struct {
	cfg     config.DocumentAIConfig
	process processFunc
}

// NewDocumentAI creates an engine for the configured processor.
func NewDocumentAI(cfg config.DocumentAIConfig) *DocumentAI {
	return &DocumentAI{cfg: cfg, process: gdocai.ProcessDocument}
}

func (d *DocumentAI) Name() string {
	return "documentai"
}

func (d *DocumentAI) Recognize(ctx context.Context, image, outBase string) (string, error) {
	content, err := os.ReadFile(image)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", image, err)
	}

	mimeType, err := mimeTypeOf(image)
	if err != nil {
		return "", err
	}

	doc, err := d.process(ctx, content, mimeType, &d.cfg.Config)
	if err != nil {
		return "", err
	}
	if d.cfg.DebugDir != "" {
		d.dumpResponse(doc, outBase)
	}
	if len(doc.GetPages()) == 0 {
		return "", fmt.Errorf("%w: document ai returned no pages for %s", ErrNoOutput, image)
	}

	html, err := gdocai.HOCRFromProto(doc)
	if err != nil {
		return "", err
	}

	path := HOCRPath(outBase)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (d *DocumentAI) Close() error {
	return nil
}

// dumpResponse writes the raw response next to other debug output. Failures are only logged.
func (d *DocumentAI) dumpResponse(doc *documentaipb.Document, outBase string) {
	out, err := gdocai.ToJSON(doc)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode Document AI response")
		return
	}
	if err := os.MkdirAll(d.cfg.DebugDir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", d.cfg.DebugDir).Msg("Failed to create debug directory")
		return
	}
	path := filepath.Join(d.cfg.DebugDir, filepath.Base(outBase)+".json")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Failed to write Document AI response")
		return
	}
	log.Debug().Str("file", path).Msg("Document AI response saved")

	for i, page := range doc.GetPages() {
		d.dumpPageImage(page, fmt.Sprintf("%s-page%d", filepath.Base(outBase), i+1))
	}
}

// dumpPageImage writes the page image Document AI returned, if any.
func (d *DocumentAI) dumpPageImage(page *documentaipb.Document_Page, name string) {
	content, err := gdocai.PageImage(page)
	if err != nil {
		log.Debug().Err(err).Str("page", name).Msg("No page image in Document AI response")
		return
	}
	path := filepath.Join(d.cfg.DebugDir, name+extensionOf(page.GetImage().GetMimeType()))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Failed to write page image")
		return
	}
	log.Debug().Str("file", path).Msg("Document AI page image saved")
}

var mimeTypes = map[string]string{
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

// extensionOf maps a page image mime type back to a file extension.
func extensionOf(mimeType string) string {
	switch mimeType {
	case "image/tiff":
		return ".tiff"
	case "image/jpeg":
		return ".jpg"
	case "image/png", "":
		return ".png"
	}
	if ext, ok := strings.CutPrefix(mimeType, "image/"); ok {
		return "." + ext
	}
	return ".bin"
}

func mimeTypeOf(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if m, ok := mimeTypes[ext]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unsupported image type %q for document ai", ext)
}

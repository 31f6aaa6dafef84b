// Package pdfocr assembles searchable PDFs from scanned page images and their hOCR.
//
// Each image becomes one PDF page sized from its OCR page box, with the recognized
// words drawn on an invisible layer at the position of each word. The text is:
// - Fully searchable
// - Selectable with mouse drag operations
// - Can be toggled on/off in compatible PDF readers, allowing users to view just the OCR layer
//
// Images may be PNG, JPEG, GIF or TIFF; TIFF scans are re-encoded as PNG before embedding.
//
// Main Functions:
//
// - AssembleWithOCR: Creates a new PDF from images with OCR text layer
// - PageFromImage: Builds an empty OCR page for a scan without OCR output
package pdfocr

import (
	"fmt"

	"github.com/gardar/djvuscan/pkg/hocr"
)

// AssembleWithOCR is a high-level function for creating a PDF from images
// and applying the hOCR text overlay.
// It accepts either raw hOCR data ([]byte) or a parsed document (*hocr.Document).
// The n-th page of the document is laid over the n-th image.
func AssembleWithOCR(
	hocrInput interface{},
	imagesData [][]byte,
	config OCRConfig,
) ([]byte, error) {
	var doc *hocr.Document
	var err error

	switch h := hocrInput.(type) {
	case []byte:
		doc, err = hocr.ParseHOCR(h)
		if err != nil {
			return nil, fmt.Errorf("failed to parse HOCR data: %w", err)
		}
	case *hocr.Document:
		if h == nil {
			return nil, fmt.Errorf("HOCR document is nil")
		}
		doc = h
	default:
		return nil, fmt.Errorf("unsupported HOCR input type: %T", hocrInput)
	}

	pages := doc.Pages()

	// Validate inputs
	if len(pages) == 0 {
		return nil, fmt.Errorf("HOCR data contains no pages")
	}
	if len(imagesData) == 0 {
		return nil, fmt.Errorf("no image data provided")
	}
	if config.StartPage < 1 {
		return nil, fmt.Errorf("start page must be at least 1, got %d", config.StartPage)
	}
	if len(imagesData) < len(pages) {
		return nil, fmt.Errorf("not enough images (%d) for HOCR pages (%d)",
			len(imagesData), len(pages))
	}
	for i, page := range pages {
		if page.BBox.Width() <= 0 || page.BBox.Height() <= 0 {
			return nil, fmt.Errorf("page %d has an empty bounding box", i+1)
		}
	}

	// Validate image formats
	for i, imgData := range imagesData {
		if len(imgData) == 0 {
			return nil, fmt.Errorf("image %d is empty", i+1)
		}
		imageType, err := detectImageType(imgData)
		if err != nil {
			return nil, fmt.Errorf("image %d has invalid format: %w", i+1, err)
		}
		if config.Debug {
			fmt.Fprintf(getLogger(config), "Image %d is of type: %s\n", i+1, imageType)
		}
	}

	finalPDF, err := createPDFFromImages(pages, imagesData, config)
	if err != nil {
		return nil, fmt.Errorf("error creating PDF from images: %w", err)
	}
	return finalPDF, nil
}

// Package gdocai runs page recognition through Google Document AI.
//
// The processor response is converted to the hOCR document model, so a page
// recognized in the cloud flows through the same djvu and PDF text pipelines
// as a page recognized by tesseract.
//
// Main Functions:
//
// - ProcessDocument: Sends a scanned page to Google Document AI for processing
// - DocumentFromProto: Converts the Document AI response to an hOCR document
// - DocumentHOCR: Processes a page and returns the response plus the hOCR HTML
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via a credentials file or GOOGLE_APPLICATION_CREDENTIALS
package gdocai

import (
	"context"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/djvuscan/pkg/hocr"
)

// DocumentHOCR processes a page image with Document AI.
// It returns:
// - The raw Document AI response
// - The hOCR HTML for the recognized page(s)
// - Any error encountered
func DocumentHOCR(ctx context.Context, content []byte, mimeType string, cfg *Config) (*documentaipb.Document, string, error) {
	rawDoc, err := ProcessDocument(ctx, content, mimeType, cfg)
	if err != nil {
		return nil, "", err
	}

	html, err := HOCRFromProto(rawDoc)
	if err != nil {
		return rawDoc, "", err
	}
	return rawDoc, html, nil
}

// HOCRFromProto renders a Document AI response as hOCR HTML.
func HOCRFromProto(docProto *documentaipb.Document) (string, error) {
	html, err := hocr.GenerateHOCRDocument(DocumentFromProto(docProto))
	if err != nil {
		return "", fmt.Errorf("failed to generate HOCR HTML: %w", err)
	}
	return html, nil
}

package pdfocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/image/tiff"

	"github.com/gardar/djvuscan/pkg/hocr"
)

// createPDFFromImages builds a new PDF from images with their corresponding OCR pages.
// This function assumes inputs have been validated by the caller.
func createPDFFromImages(pages []*hocr.Node, imagesData [][]byte, config OCRConfig) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreator("djvuscan", true)

	for i := config.StartPage - 1; i < len(pages) && i < len(imagesData); i++ {
		page := pages[i]
		hocrW, hocrH := float64(page.BBox.Width()), float64(page.BBox.Height())
		w := pointsFromPixels(page.BBox.Width(), config.DPI)
		h := pointsFromPixels(page.BBox.Height(), config.DPI)

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		imgData, imageType, err := embeddableImage(imagesData[i])
		if err != nil {
			return nil, fmt.Errorf("failed to prepare image %d: %w", i+1, err)
		}

		imageName := fmt.Sprintf("img%d", i)
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
		pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(imgData))
		pdf.ImageOptions(imageName, 0, 0, w, h, false, opts, 0, "")

		originX, originY := float64(page.BBox.X1), float64(page.BBox.Y1)
		transform := func(x, y float64) (float64, float64) {
			return normalizeCoords(x-originX, y-originY, hocrW, hocrH, w, h)
		}

		if err := drawOCRLayer(pdf, page, config, i+1, transform); err != nil {
			return nil, fmt.Errorf("failed to draw OCR layer for page %d: %w", i+1, err)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// embeddableImage returns image data in a format fpdf can embed.
// TIFF scans are re-encoded as PNG.
func embeddableImage(data []byte) ([]byte, string, error) {
	imageType, err := detectImageType(data)
	if err != nil {
		return nil, "", err
	}
	if imageType != "TIFF" {
		return data, imageType, nil
	}

	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode TIFF: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("failed to re-encode TIFF as PNG: %w", err)
	}
	return buf.Bytes(), "PNG", nil
}

// detectImageType tries to figure out whether the data is PNG, JPEG, TIFF, etc.
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return strings.ToUpper(format), nil
}

// PageFromImage returns an empty OCR page covering the whole image.
// It stands in for scans whose OCR output is missing.
func PageFromImage(data []byte) (*hocr.Node, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image config: %w", err)
	}
	return &hocr.Node{
		Kind:  hocr.KindPage,
		Class: hocr.KindPage.Class(),
		BBox:  hocr.NewBoundingBox(0, 0, cfg.Width, cfg.Height),
	}, nil
}

package pdfocr

import (
	"io"
	"os"
)

// normalizeCoords rescales hOCR Bounding Box (bbox) coords to the PDF coords.
func normalizeCoords(x, y, hocrW, hocrH, pdfW, pdfH float64) (float64, float64) {
	if hocrW == 0 || hocrH == 0 {
		return x, y
	}
	nx := (x / hocrW) * pdfW
	ny := (y / hocrH) * pdfH
	return nx, ny
}

// pointsFromPixels converts an image length to PDF points at the given resolution.
func pointsFromPixels(px int, dpi float64) float64 {
	if dpi <= 0 {
		return float64(px)
	}
	return float64(px) * 72 / dpi
}

// getLogger returns the appropriate io.Writer to use for logging
// based on the configuration settings, defaulting to os.Stdout if nil.
func getLogger(config OCRConfig) io.Writer {
	if config.Logger == nil {
		return os.Stdout
	}
	return config.Logger
}

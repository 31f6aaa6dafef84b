package pdfocr

import (
	"io"
)

// OCRConfig holds user options for assembling a PDF with an OCR layer
type OCRConfig struct {
	Debug       bool      // Draw the OCR text in red with word boxes
	LayerName   string    // Base name of OCR layer (page number will be appended)
	StartPage   int       // Start assembling from this page number
	DPI         float64   // Scan resolution; 0 maps one image pixel to one PDF point
	LogWarnings bool      // Whether to print warnings
	Logger      io.Writer // Custom logger for warnings (nil = stdout)
	Font        FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() OCRConfig {
	return OCRConfig{
		LayerName:   "OCR Text", // Will be formatted as "OCR Text (Page X)" in the final PDF
		StartPage:   1,
		LogWarnings: true,
		Font:        DefaultFont,
	}
}

// FontConfig contains font settings for OCR text rendering
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont sets the default font to Helvetica which is tried and tested for the OCR layer
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}

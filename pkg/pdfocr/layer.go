package pdfocr

import (
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/djvuscan/pkg/hocr"
)

// drawOCRLayer draws the OCR words of page onto a layer of the current PDF page.
// The pageNum parameter is used to create unique layer names for each page.
func drawOCRLayer(
	pdf *fpdf.Fpdf,
	page *hocr.Node,
	config OCRConfig,
	pageNum int,
	transform func(x, y float64) (float64, float64),
) error {
	layerName := config.LayerName
	if layerName == "" {
		layerName = DefaultConfig().LayerName
	}
	if pageNum > 0 {
		layerName = fmt.Sprintf("%s (Page %d)", layerName, pageNum)
	}

	layer := pdf.AddLayer(layerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(config.Font.Name, config.Font.Style, config.Font.Size)

	if config.Debug {
		pdf.SetTextColor(255, 0, 0) // highlight text in red
	} else {
		pdf.SetAlpha(0.0, "Normal") // hide text from normal view
	}

	encodingErrors := 0
	wordCount := 0

	page.Walk(func(n *hocr.Node) bool {
		if n != page && !n.Recognized() {
			return false
		}
		if n.Kind != hocr.KindWord {
			return true
		}
		if strings.TrimSpace(n.Text) != "" {
			drawWord(pdf, n, transform, config, &encodingErrors)
			wordCount++
		}
		return false
	})

	if !config.Debug {
		pdf.SetAlpha(1.0, "Normal")
	}
	pdf.EndLayer()

	// Report encoding errors if more than a threshold
	if wordCount > 0 && encodingErrors > wordCount/10 {
		return fmt.Errorf("character encoding issues in %d of %d words",
			encodingErrors, wordCount)
	}
	if encodingErrors > 0 && config.LogWarnings {
		fmt.Fprintf(getLogger(config), "Warning: page %d: %d words could not be encoded as Latin-1\n",
			pageNum, encodingErrors)
	}

	return nil
}

// drawWord renders a single word onto the PDF layer
func drawWord(pdf *fpdf.Fpdf, word *hocr.Node, transform func(x, y float64) (float64, float64),
	config OCRConfig, encodingErrors *int) {

	bbox := word.BBox
	x, top := transform(float64(bbox.X1), float64(bbox.Y1))
	x2, bottom := transform(float64(bbox.X2), float64(bbox.Y2))
	wordWidth := x2 - x

	// Convert text to ISO-8859-1 to avoid PDF encoding issues
	text := strings.TrimSpace(word.Text)
	latin1, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		*encodingErrors++
		latin1 = text // fallback to raw text
	}

	strWidth := pdf.GetStringWidth(latin1)
	if strWidth > 0 && wordWidth > 0 {
		pdf.SetFontSize(config.Font.Size * wordWidth / strWidth)
	}

	fontSize, _ := pdf.GetFontSize()
	pdf.Text(x, top+fontSize*config.Font.AscentRatio, latin1)
	pdf.SetFontSize(config.Font.Size)

	if config.Debug {
		pdf.Rect(x, top, wordWidth, bottom-top, "D")
	}
}

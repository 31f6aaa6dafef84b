package gdocai

import (
	"fmt"
	"math"
	"strconv"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/djvuscan/pkg/hocr"
)

// DocumentFromProto converts a Document AI response into an hOCR document tree.
//
// Blocks become content areas, then paragraphs, lines and words. Elements are
// nested by text anchor containment; paragraphs outside every block and lines
// outside every paragraph are attached to the page directly.
func DocumentFromProto(docProto *documentaipb.Document) *hocr.Document {
	doc := &hocr.Document{
		Title:    "Document OCR",
		Language: getDocumentLanguage(docProto),
		Metadata: map[string]string{
			"ocr-system":       "Document AI OCR",
			"ocr-capabilities": "ocr_page ocr_carea ocr_par ocr_line ocrx_word",
		},
	}
	if docProto == nil {
		doc.Metadata["ocr-number-of-pages"] = "0"
		return doc
	}
	if doc.Language != "" {
		doc.Metadata["ocr-langs"] = doc.Language
	}

	for i, page := range docProto.Pages {
		pageNumber := int(page.PageNumber)
		if pageNumber == 0 {
			pageNumber = i + 1
		}
		doc.Body = append(doc.Body, CreateHOCRPage(page, docProto.Text, pageNumber))
	}
	doc.Metadata["ocr-number-of-pages"] = strconv.Itoa(len(doc.Body))
	return doc
}

// CreateHOCRPage converts a single Document AI page to an hOCR page node.
func CreateHOCRPage(page *documentaipb.Document_Page, fullText string, pageNumber int) *hocr.Node {
	ocrPage := newNode(hocr.KindPage, fmt.Sprintf("page_%d", pageNumber), pageBox(page.Dimension))
	ocrPage.Props = map[string]string{"ppageno": strconv.Itoa(pageNumber - 1)}
	if len(page.DetectedLanguages) > 0 {
		ocrPage.Lang = page.DetectedLanguages[0].LanguageCode
	}

	// Track which paragraphs and lines are assigned to avoid duplication
	assignedParas := make(map[int]bool)
	assignedLines := make(map[int]bool)

	for aidx, block := range page.Blocks {
		area := newNode(hocr.KindArea, fmt.Sprintf("carea_%d_%d", pageNumber, aidx),
			getBoundingBox(block.Layout, page.Dimension))
		for pidx, para := range page.Paragraphs {
			if assignedParas[pidx] || !isElementInParent(para.Layout, block.Layout) {
				continue
			}
			assignedParas[pidx] = true
			area.Children = append(area.Children,
				convertParagraph(para, page, fullText, pageNumber, aidx, pidx, assignedLines))
		}
		ocrPage.Children = append(ocrPage.Children, area)
	}

	// Paragraphs not assigned to any block
	for pidx, para := range page.Paragraphs {
		if assignedParas[pidx] {
			continue
		}
		ocrPage.Children = append(ocrPage.Children,
			convertParagraph(para, page, fullText, pageNumber, -1, pidx, assignedLines))
	}

	// Lines not assigned to any paragraph
	for lidx, line := range page.Lines {
		if assignedLines[lidx] {
			continue
		}
		ocrPage.Children = append(ocrPage.Children,
			convertLineFromProto(line, page, fullText, pageNumber, -1, -1, lidx))
	}

	return ocrPage
}

func convertParagraph(para *documentaipb.Document_Page_Paragraph, page *documentaipb.Document_Page,
	fullText string, pageNum, blockIdx, paraIdx int, assignedLines map[int]bool) *hocr.Node {

	ocrPara := newNode(hocr.KindParagraph, fmt.Sprintf("par_%d_%d_%d", pageNum, blockIdx, paraIdx),
		getBoundingBox(para.Layout, page.Dimension))
	if len(para.DetectedLanguages) > 0 {
		ocrPara.Lang = para.DetectedLanguages[0].LanguageCode
	}

	for lidx, line := range page.Lines {
		if assignedLines[lidx] || !isElementInParent(line.Layout, para.Layout) {
			continue
		}
		assignedLines[lidx] = true
		ocrPara.Children = append(ocrPara.Children,
			convertLineFromProto(line, page, fullText, pageNum, blockIdx, paraIdx, lidx))
	}
	return ocrPara
}

// Convert a proto line to an OCR line
func convertLineFromProto(line *documentaipb.Document_Page_Line, page *documentaipb.Document_Page,
	fullText string, pageNum, blockIdx, paraIdx, lineIdx int) *hocr.Node {

	ocrLine := newNode(hocr.KindLine, fmt.Sprintf("line_%d_%d_%d_%d", pageNum, blockIdx, paraIdx, lineIdx),
		getBoundingBox(line.Layout, page.Dimension))
	if len(line.DetectedLanguages) > 0 {
		ocrLine.Lang = line.DetectedLanguages[0].LanguageCode
	}

	for tidx, token := range page.Tokens {
		if !isElementInParent(token.Layout, line.Layout) {
			continue
		}
		text := cleanTokenText(textFromLayout(token.Layout, fullText))
		if text == "" {
			continue
		}

		word := newNode(hocr.KindWord,
			fmt.Sprintf("word_%d_%d_%d_%d_%d", pageNum, blockIdx, paraIdx, lineIdx, tidx),
			getBoundingBox(token.Layout, page.Dimension))
		word.Text = text
		if token.Layout != nil && token.Layout.Confidence > 0 {
			word.Props = map[string]string{
				"x_wconf": strconv.Itoa(int(math.Round(float64(token.Layout.Confidence) * 100))),
			}
		}
		if len(token.DetectedLanguages) > 0 {
			word.Lang = token.DetectedLanguages[0].LanguageCode
		}
		ocrLine.Children = append(ocrLine.Children, word)
	}

	return ocrLine
}

func newNode(kind hocr.Kind, id string, bbox hocr.BoundingBox) *hocr.Node {
	return &hocr.Node{Kind: kind, Class: kind.Class(), ID: id, BBox: bbox}
}

func pageBox(dimension *documentaipb.Document_Page_Dimension) hocr.BoundingBox {
	if dimension == nil {
		return hocr.BoundingBox{}
	}
	return hocr.NewBoundingBox(0, 0, round(dimension.Width), round(dimension.Height))
}

// getBoundingBox converts Document AI coordinates to hOCR pixel coordinates.
// Normalized vertices (0-1) are scaled to the page dimensions; absolute vertices are used as is.
func getBoundingBox(layout *documentaipb.Document_Page_Layout, dimension *documentaipb.Document_Page_Dimension) hocr.BoundingBox {
	if layout == nil || layout.BoundingPoly == nil {
		return hocr.BoundingBox{}
	}

	var xs, ys []float32
	if nv := layout.BoundingPoly.NormalizedVertices; len(nv) > 0 && dimension != nil {
		for _, v := range nv {
			xs = append(xs, v.X*dimension.Width)
			ys = append(ys, v.Y*dimension.Height)
		}
	} else {
		for _, v := range layout.BoundingPoly.Vertices {
			xs = append(xs, float32(v.X))
			ys = append(ys, float32(v.Y))
		}
	}
	if len(xs) == 0 {
		return hocr.BoundingBox{}
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		minX = min(minX, xs[i])
		maxX = max(maxX, xs[i])
		minY = min(minY, ys[i])
		maxY = max(maxY, ys[i])
	}
	return hocr.NewBoundingBox(round(minX), round(minY), round(maxX), round(maxY))
}

func round(v float32) int {
	return int(math.Round(float64(v)))
}

// getDocumentLanguage finds the most common language in the document
// by counting language occurrences across pages and tokens
func getDocumentLanguage(doc *documentaipb.Document) string {
	if doc == nil {
		return ""
	}
	langCount := make(map[string]int)
	for _, page := range doc.Pages {
		for _, lang := range page.DetectedLanguages {
			langCount[lang.LanguageCode]++
		}
		for _, token := range page.Tokens {
			for _, lang := range token.DetectedLanguages {
				langCount[lang.LanguageCode]++
			}
		}
	}

	var mostCommonLang string
	var highestCount int
	for lang, count := range langCount {
		// Ties resolve alphabetically so the result is stable
		if count > highestCount || (count == highestCount && lang < mostCommonLang) {
			highestCount = count
			mostCommonLang = lang
		}
	}
	return mostCommonLang
}

// Helper function to check if an element is contained within a parent
func isElementInParent(elementLayout, parentLayout *documentaipb.Document_Page_Layout) bool {
	if elementLayout == nil || parentLayout == nil ||
		elementLayout.TextAnchor == nil || parentLayout.TextAnchor == nil ||
		len(elementLayout.TextAnchor.TextSegments) == 0 || len(parentLayout.TextAnchor.TextSegments) == 0 {
		return false
	}

	elementStart := elementLayout.TextAnchor.TextSegments[0].StartIndex
	elementEnd := elementLayout.TextAnchor.TextSegments[0].EndIndex
	parentStart := parentLayout.TextAnchor.TextSegments[0].StartIndex
	parentEnd := parentLayout.TextAnchor.TextSegments[0].EndIndex

	return elementStart >= parentStart && elementEnd <= parentEnd
}

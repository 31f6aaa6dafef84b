package hocr

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestParseHOCR_Tesseract(t *testing.T) {
	doc, err := ParseHOCR(loadFixture(t, "tesseract.hocr"))
	require.NoError(t, err)

	assert.Equal(t, "fr", doc.Language)
	assert.Equal(t, "tesseract 5.3.0", doc.Metadata["ocr-system"])

	require.Len(t, doc.Body, 1)
	page := doc.Body[0]
	assert.Equal(t, KindPage, page.Kind)
	assert.Equal(t, "page_1", page.ID)
	assert.Equal(t, NewBoundingBox(0, 0, 2480, 3508), page.BBox)
	assert.Equal(t, "0", page.Props["ppageno"])
	assert.Equal(t, "300 300", page.Props["scan_res"])
	assert.Empty(t, page.Text)

	require.Len(t, page.Children, 3)
	assert.Equal(t, KindArea, page.Children[0].Kind)
	assert.Equal(t, KindArea, page.Children[1].Kind)

	separator := page.Children[2]
	assert.Equal(t, Unrecognized, separator.Kind)
	assert.Equal(t, "ocr_separator", separator.Class)
	assert.Empty(t, separator.Children)

	header := page.Children[0].Children[0].Children[0]
	assert.Equal(t, KindHeader, header.Kind)
	assert.Equal(t, "0 -13", header.Props["baseline"])
	require.Len(t, header.Children, 3)
	assert.Equal(t, "Facture", header.Children[0].Text)
	assert.Equal(t, "n°", header.Children[1].Text)
	assert.Equal(t, "2023-117", header.Children[2].Text, "text inside <strong> is the word's string")
	assert.Equal(t, "96", header.Children[0].Props["x_wconf"])

	par := page.Children[1].Children[0]
	assert.Equal(t, "fra", par.Lang)
	require.Len(t, par.Children, 2)
	assert.Equal(t, KindLine, par.Children[0].Kind)
	assert.Equal(t, KindCaption, par.Children[1].Kind)
	assert.Equal(t, `"bonjour"`, par.Children[0].Children[3].Text)
	assert.Equal(t, `C:\temp`, par.Children[1].Children[0].Text)
}

func TestParseHOCR_SingleChildText(t *testing.T) {
	data := []byte(`<html><body>` +
		`<div class='ocr_page' title='bbox 0 0 1000 1400'>` +
		`<span class='ocr_line' title='bbox 10 20 500 60'>` +
		`<span class='ocrx_word' title='bbox 10 20 120 60'>Bonjour</span>` +
		`</span></div></body></html>`)

	doc, err := ParseHOCR(data)
	require.NoError(t, err)

	line := doc.Body[0].Children[0]
	assert.Equal(t, "Bonjour", line.Text, "a line with a single word child carries the word's string")
	assert.Equal(t, "Bonjour", line.Children[0].Text)
}

func TestParseHOCR_SelfClosingElements(t *testing.T) {
	data := []byte(`<html><body>` +
		`<div class='ocr_page' title='bbox 0 0 10 10'>` +
		`<span class='ocrx_word' title='bbox 1 2 3 4'/>` +
		`<span class='ocrx_word' title='bbox 5 5 6 6'>y</span>` +
		`<br/>` +
		`</div></body></html>`)

	doc, err := ParseHOCR(data)
	require.NoError(t, err)

	page := doc.Body[0]
	require.Len(t, page.Children, 3, "self-closing words stay siblings")
	assert.Equal(t, NewBoundingBox(1, 2, 3, 4), page.Children[0].BBox)
	assert.Empty(t, page.Children[0].Children)
	assert.Empty(t, page.Children[0].Text)
	assert.Equal(t, "y", page.Children[1].Text)
	assert.Equal(t, Unrecognized, page.Children[2].Kind)
}

func TestExpandSelfClosing(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `<span class="x"/>a`, want: `<span class="x"/></span>a`},
		{in: `<br/><img src="a.png" />`, want: `<br/><img src="a.png" />`},
		{in: `<SPAN/>`, want: `<SPAN/></span>`},
		{in: `<p>plain</p>`, want: `<p>plain</p>`},
		{in: `<title>a/>b</title>`, want: `<title>a/>b</title>`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(expandSelfClosing([]byte(tt.in))), tt.in)
	}
}

func TestParseHOCR_UnrecognizedSubtreeIsNotParsed(t *testing.T) {
	data := []byte(`<html><body>` +
		`<div class='ocr_page' title='bbox 0 0 100 100'>` +
		`<div class='wrapper'><span class='ocrx_word' title='no box here'>x</span></div>` +
		`</div></body></html>`)

	doc, err := ParseHOCR(data)
	require.NoError(t, err)

	wrapper := doc.Body[0].Children[0]
	assert.False(t, wrapper.Recognized())
	assert.Empty(t, wrapper.Children)
}

func TestParseHOCR_MalformedBBox(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing title", `<div class='ocr_page'></div>`},
		{"title without bbox", `<div class='ocr_page' title='image "x.tiff"'></div>`},
		{"negative coordinate", `<div class='ocr_page' title='bbox -1 0 10 10'></div>`},
		{"too few coordinates", `<div class='ocr_page' title='bbox 0 0 10'></div>`},
		{"nested word", `<div class='ocr_page' title='bbox 0 0 10 10'><span class='ocrx_word' title='bbox a b c d'>x</span></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseHOCR([]byte("<html><body>" + tt.body + "</body></html>"))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingBBox)
			assert.Nil(t, doc)
		})
	}
}

func TestParseHOCR_EmptyBody(t *testing.T) {
	doc, err := ParseHOCR([]byte(`<html><body><p>nothing here</p></body></html>`))
	require.NoError(t, err)
	require.Len(t, doc.Body, 1)
	assert.False(t, doc.Body[0].Recognized())
	assert.Empty(t, doc.Pages())
}

func TestParseHOCR_Latin1(t *testing.T) {
	// "é" encoded as ISO-8859-1
	data := []byte("<html><head><meta http-equiv='Content-Type' content='text/html; charset=iso-8859-1'></head><body>" +
		"<div class='ocr_page' title='bbox 0 0 10 10'><span class='ocrx_word' title='bbox 0 0 5 5'>caf\xe9</span></div>" +
		"</body></html>")

	doc, err := ParseHOCR(data)
	require.NoError(t, err)
	assert.Equal(t, "café", doc.Body[0].Children[0].Text)
}

func TestClassKind(t *testing.T) {
	tests := []struct {
		class string
		want  Kind
	}{
		{"ocr_page", KindPage},
		{"ocr_carea", KindArea},
		{"ocr_par", KindParagraph},
		{"ocr_line", KindLine},
		{"ocr_header", KindHeader},
		{"ocr_textfloat", KindTextFloat},
		{"ocr_caption", KindCaption},
		{"ocrx_word", KindWord},
		{"ocrx_word bold", KindWord},
		{"custom ocr_line", KindLine},
		{"ocr_separator", Unrecognized},
		{"ocrx_line", Unrecognized},
		{"", Unrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			assert.Equal(t, tt.want, classKind(tt.class))
		})
	}
}

func TestParseTitle(t *testing.T) {
	props := ParseTitle(`image "1.tiff"; bbox 0 0 2480 3508; ppageno 0`)
	assert.Equal(t, []string{`"1.tiff"`}, props["image"])
	assert.Equal(t, []string{"0", "0", "2480", "3508"}, props["bbox"])
	assert.Equal(t, []string{"0"}, props["ppageno"])
}

func TestParseBoundingBox(t *testing.T) {
	bbox, err := ParseBoundingBox("baseline 0 -5; bbox 10 20 30 40; x_wconf 90")
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{X1: 10, Y1: 20, X2: 30, Y2: 40}, bbox)
	assert.Equal(t, 20, bbox.Width())
	assert.Equal(t, 20, bbox.Height())
	assert.Equal(t, "bbox 10 20 30 40", bbox.String())
}

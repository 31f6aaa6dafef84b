package djvutxt

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/djvuscan/pkg/hocr"
)

func wrapBody(body string) []byte {
	return []byte("<html><head><title></title></head><body>\n" + body + "\n</body></html>")
}

func TestConvertHOCR_SinglePage(t *testing.T) {
	input := wrapBody(`<div class='ocr_page' id='page_1' title='bbox 0 0 1000 1400'>
 <div class='ocr_carea' id='block_1_1' title='bbox 10 20 990 1380'>
  <span class='ocr_line' id='line_1_1' title='bbox 10 20 500 60'><span class='ocrx_word' id='word_1_1' title='bbox 10 20 120 60'>Bonjour</span></span>
 </div>
</div>`)

	want := `(page 0 0 1000 1400
 (column 10 1380 990 20
  (line 10 1380 500 1340 "Bonjour"
   (word 10 1380 120 1340 "Bonjour"))))`

	got, err := ConvertHOCR(input, Options{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConvertHOCR_Tesseract(t *testing.T) {
	input, err := os.ReadFile("testdata/tesseract.hocr")
	require.NoError(t, err)
	want, err := os.ReadFile("testdata/tesseract.djvutxt")
	require.NoError(t, err)

	got, stats, err := ConvertHOCRWithStats(input, Options{RequirePage: true})
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(string(want)), got)
	assert.Equal(t, Stats{Pages: 1, Records: 16, Words: 8}, stats)
}

func TestConvertHOCR_HeaderBecomesLine(t *testing.T) {
	for _, class := range []string{"ocr_header", "ocr_textfloat", "ocr_caption"} {
		t.Run(class, func(t *testing.T) {
			input := wrapBody(`<div class='ocr_page' title='bbox 0 0 100 100'>
 <span class='` + class + `' title='bbox 0 10 50 20'>
  <span class='ocrx_word' title='bbox 0 10 50 20'>Titre</span>
 </span>
</div>`)

			got, err := ConvertHOCR(input, Options{})
			require.NoError(t, err)
			assert.Equal(t, "(page 0 0 100 100\n (line 0 90 50 80\n  (word 0 90 50 80 \"Titre\")))", got)
			assert.NotContains(t, got, "header")
		})
	}
}

func TestConvertHOCR_EmptyBody(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"no content", wrapBody("")},
		{"only unrecognized", wrapBody(`<div class='ocr_separator' title='bbox 0 0 1 1'></div><p>plain</p>`)},
		{"empty input", []byte("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertHOCR(tt.input, Options{RequirePage: true})
			require.NoError(t, err)
			assert.Equal(t, "", got)
		})
	}
}

func TestConvertHOCR_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"page without title", `<div class='ocr_page'></div>`},
		{"word with broken bbox", `<div class='ocr_page' title='bbox 0 0 10 10'>
 <span class='ocr_line' title='bbox 0 0 10 10'>
  <span class='ocrx_word' title='bbox 0 0 x 10'>a</span>
 </span>
</div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertHOCR(wrapBody(tt.body), Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedInput)
			assert.ErrorIs(t, err, hocr.ErrMissingBBox)
			assert.Empty(t, got)
		})
	}
}

func TestConvert_NoPageRoot(t *testing.T) {
	doc := &hocr.Document{Body: []*hocr.Node{
		{Kind: hocr.KindLine, BBox: hocr.NewBoundingBox(10, 20, 50, 60), Children: []*hocr.Node{
			{Kind: hocr.KindWord, BBox: hocr.NewBoundingBox(10, 20, 50, 60), Text: "orphan"},
		}},
	}}

	t.Run("legacy zero height", func(t *testing.T) {
		got, err := Convert(doc, Options{})
		require.NoError(t, err)
		assert.Equal(t, "(line 10 -20 50 -60\n (word 10 -20 50 -60 \"orphan\"))", got)
	})

	t.Run("strict", func(t *testing.T) {
		got, err := Convert(doc, Options{RequirePage: true})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedInput)
		assert.Empty(t, got)
	})
}

func TestConvert_PageHeightIsScopedPerPage(t *testing.T) {
	doc := &hocr.Document{Body: []*hocr.Node{
		{Kind: hocr.KindPage, BBox: hocr.NewBoundingBox(0, 0, 100, 200), Children: []*hocr.Node{
			{Kind: hocr.KindWord, BBox: hocr.NewBoundingBox(1, 10, 5, 20), Text: "a"},
		}},
		{Kind: hocr.KindPage, BBox: hocr.NewBoundingBox(0, 100, 100, 400), Children: []*hocr.Node{
			{Kind: hocr.KindWord, BBox: hocr.NewBoundingBox(1, 10, 5, 20), Text: "b"},
		}},
		{Kind: hocr.KindPage, BBox: hocr.NewBoundingBox(0, 0, 100, 50), Children: []*hocr.Node{
			{Kind: hocr.KindPage, BBox: hocr.NewBoundingBox(0, 0, 10, 30), Children: []*hocr.Node{
				{Kind: hocr.KindWord, BBox: hocr.NewBoundingBox(1, 10, 5, 20), Text: "inner"},
			}},
			{Kind: hocr.KindWord, BBox: hocr.NewBoundingBox(1, 10, 5, 20), Text: "outer"},
		}},
	}}

	want := `(page 0 0 100 200
 (word 1 190 5 180 "a"))
(page 0 100 100 400
 (word 1 290 5 280 "b"))
(page 0 0 100 50
 (page 0 0 10 30
  (word 1 20 5 10 "inner"))
 (word 1 40 5 30 "outer"))`

	got, err := Convert(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConvert_UnrecognizedSubtreeDropped(t *testing.T) {
	doc := &hocr.Document{Body: []*hocr.Node{
		{Kind: hocr.KindPage, BBox: hocr.NewBoundingBox(0, 0, 10, 10), Children: []*hocr.Node{
			{Kind: hocr.Unrecognized, Class: "ocr_table", Children: []*hocr.Node{
				{Kind: hocr.KindWord, BBox: hocr.NewBoundingBox(0, 0, 1, 1), Text: "hidden"},
			}},
			{Kind: hocr.KindWord, BBox: hocr.NewBoundingBox(2, 2, 3, 3), Text: "shown"},
		}},
	}}

	got, stats, err := ConvertWithStats(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, "(page 0 0 10 10\n (word 2 8 3 7 \"shown\"))", got)
	assert.NotContains(t, got, "hidden")
	assert.Equal(t, 1, stats.Words)
}

func TestConvert_UnsupportedKind(t *testing.T) {
	doc := &hocr.Document{Body: []*hocr.Node{
		{Kind: hocr.KindPage, BBox: hocr.NewBoundingBox(0, 0, 10, 10), Children: []*hocr.Node{
			{Kind: hocr.Kind(99), ID: "mystery", BBox: hocr.NewBoundingBox(0, 0, 1, 1)},
		}},
	}}

	got, err := Convert(doc, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedInput)
	assert.Empty(t, got)
}

func TestConvert_NilDocument(t *testing.T) {
	got, err := Convert(nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConvert_NestingDepthFollowsRecognizedAncestors(t *testing.T) {
	input := wrapBody(`<div class='ocr_page' title='bbox 0 0 100 100'>
 <div class='ocr_carea' title='bbox 0 0 100 100'>
  <p class='ocr_par' title='bbox 0 0 100 100'>
   <span class='ocr_line' title='bbox 0 0 100 10'>
    <span class='ocrx_word' title='bbox 0 0 10 10'>a</span>
    <span class='ocrx_word' title='bbox 20 0 30 10'>b</span>
   </span>
  </p>
 </div>
</div>`)

	got, err := ConvertHOCR(input, Options{})
	require.NoError(t, err)

	depthOf := map[string]int{}
	for _, line := range strings.Split(got, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		keyword := strings.Fields(strings.TrimPrefix(trimmed, "("))[0]
		depthOf[keyword] = len(line) - len(trimmed)
	}
	assert.Equal(t, map[string]int{"page": 0, "column": 1, "para": 2, "line": 3, "word": 4}, depthOf)
	assert.Equal(t, strings.Count(got, "("), strings.Count(got, ")"))
	assert.Less(t, strings.Index(got, `"a"`), strings.Index(got, `"b"`), "sibling order is preserved")
}

func TestFlip(t *testing.T) {
	tests := []struct {
		name   string
		box    hocr.BoundingBox
		height int
		want   hocr.BoundingBox
	}{
		{"word", hocr.NewBoundingBox(10, 20, 120, 60), 1400, hocr.NewBoundingBox(10, 1380, 120, 1340)},
		{"full page", hocr.NewBoundingBox(0, 0, 100, 100), 100, hocr.NewBoundingBox(0, 100, 100, 0)},
		{"zero height", hocr.NewBoundingBox(1, 2, 3, 4), 0, hocr.NewBoundingBox(1, -2, 3, -4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flip(tt.box, tt.height)
			assert.Equal(t, tt.want, got)
			assert.Greater(t, got.Y1, got.Y2, "flipped boxes are not re-normalized")
		})
	}
}

func TestKeyword(t *testing.T) {
	want := map[hocr.Kind]string{
		hocr.KindPage:      "page",
		hocr.KindArea:      "column",
		hocr.KindParagraph: "para",
		hocr.KindLine:      "line",
		hocr.KindHeader:    "line",
		hocr.KindTextFloat: "line",
		hocr.KindCaption:   "line",
		hocr.KindWord:      "word",
	}

	outputs := map[string]bool{}
	for _, k := range hocr.Kinds() {
		kw, err := Keyword(k)
		require.NoError(t, err, k.String())
		assert.Equal(t, want[k], kw, k.String())
		outputs[kw] = true
	}
	assert.Len(t, outputs, 5)

	_, err := Keyword(hocr.Unrecognized)
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}

// Package djvutxt converts hOCR documents into the djvu hidden-text script
// understood by `djvused set-txt`.
//
// The script is a tree of parenthesized records:
//
//	(page 0 0 2480 3508
//	 (column 236 3225 1208 3167
//	  (para ...
//	   (line ...
//	    (word 236 3225 521 3180 "Facture")))))
//
// Page records keep their hOCR coordinates. Every other record is flipped to
// the bottom-left origin djvu expects, using the height of the enclosing page.
package djvutxt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gardar/djvuscan/pkg/hocr"
)

// Options tune the conversion.
type Options struct {
	// RequirePage rejects recognized elements that are not inside a page.
	// When false such elements are flipped against a page height of zero.
	RequirePage bool
}

// Stats summarizes a conversion.
type Stats struct {
	Pages   int // page records emitted
	Records int // records emitted, pages included
	Words   int // word records emitted
}

// ConvertHOCR parses raw hOCR and converts it to a hidden-text script.
func ConvertHOCR(data []byte, opts Options) (string, error) {
	script, _, err := ConvertHOCRWithStats(data, opts)
	return script, err
}

// ConvertHOCRWithStats is ConvertHOCR that also reports what was emitted.
func ConvertHOCRWithStats(data []byte, opts Options) (string, Stats, error) {
	doc, err := hocr.ParseHOCR(data)
	if err != nil {
		return "", Stats{}, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return ConvertWithStats(doc, opts)
}

// Convert turns a parsed hOCR document into a hidden-text script.
// An empty document, or one without recognized elements, converts to "".
func Convert(doc *hocr.Document, opts Options) (string, error) {
	script, _, err := ConvertWithStats(doc, opts)
	return script, err
}

// ConvertWithStats is Convert that also reports what was emitted.
// Nothing is returned unless the whole tree converts.
func ConvertWithStats(doc *hocr.Document, opts Options) (string, Stats, error) {
	if doc == nil {
		return "", Stats{}, nil
	}
	c := &converter{opts: opts}
	if err := c.emit(doc.Body, 0, frame{}); err != nil {
		return "", Stats{}, err
	}
	return strings.TrimSpace(c.buf.String()), c.stats, nil
}

// frame is the coordinate frame of the nearest enclosing page.
type frame struct {
	height int
	inPage bool
}

type converter struct {
	opts  Options
	buf   strings.Builder
	stats Stats
}

// emit writes one record per recognized node, depth-first. Unrecognized
// nodes are dropped together with their subtrees.
func (c *converter) emit(nodes []*hocr.Node, depth int, f frame) error {
	for _, n := range nodes {
		if !n.Recognized() {
			continue
		}
		keyword, err := Keyword(n.Kind)
		if err != nil {
			return fmt.Errorf("%s %q: %w", n.Kind, n.ID, err)
		}

		box := n.BBox
		inner := f
		if n.Kind == hocr.KindPage {
			inner = frame{height: n.BBox.Height(), inPage: true}
			c.stats.Pages++
		} else {
			if !f.inPage && c.opts.RequirePage {
				return fmt.Errorf("%w: %s %q has no enclosing ocr_page", ErrMalformedInput, n.Kind, n.ID)
			}
			box = Flip(n.BBox, f.height)
		}
		if n.Kind == hocr.KindWord {
			c.stats.Words++
		}
		c.stats.Records++

		c.buf.WriteByte('\n')
		c.buf.WriteString(strings.Repeat(" ", depth))
		c.buf.WriteByte('(')
		c.buf.WriteString(keyword)
		c.buf.WriteByte(' ')
		c.buf.WriteString(formatBox(box))
		if n.Text != "" {
			c.buf.WriteString(` "`)
			c.buf.WriteString(Escape(n.Text))
			c.buf.WriteByte('"')
		}

		if err := c.emit(n.Children, depth+1, inner); err != nil {
			return err
		}
		c.buf.WriteByte(')')
	}
	return nil
}

// Flip converts a top-left-origin box to djvu's bottom-left origin.
// The result is not re-normalized: Y1 stays the flipped top edge.
func Flip(b hocr.BoundingBox, pageHeight int) hocr.BoundingBox {
	return hocr.BoundingBox{
		X1: b.X1,
		Y1: pageHeight - b.Y1,
		X2: b.X2,
		Y2: pageHeight - b.Y2,
	}
}

func formatBox(b hocr.BoundingBox) string {
	return strconv.Itoa(b.X1) + " " + strconv.Itoa(b.Y1) + " " +
		strconv.Itoa(b.X2) + " " + strconv.Itoa(b.Y2)
}

package hocr

import "fmt"

// Kind identifies the layout element an hOCR node stands for.
// The vocabulary is closed; anything else parses as Unrecognized.
type Kind int

const (
	Unrecognized Kind = iota
	KindPage          // ocr_page
	KindArea          // ocr_carea
	KindParagraph     // ocr_par
	KindLine          // ocr_line
	KindHeader        // ocr_header
	KindTextFloat     // ocr_textfloat
	KindCaption       // ocr_caption
	KindWord          // ocrx_word
)

var kindClasses = map[Kind]string{
	KindPage:      "ocr_page",
	KindArea:      "ocr_carea",
	KindParagraph: "ocr_par",
	KindLine:      "ocr_line",
	KindHeader:    "ocr_header",
	KindTextFloat: "ocr_textfloat",
	KindCaption:   "ocr_caption",
	KindWord:      "ocrx_word",
}

var classKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindClasses))
	for k, class := range kindClasses {
		m[class] = k
	}
	return m
}()

// Kinds returns the recognized vocabulary in hierarchy order.
func Kinds() []Kind {
	return []Kind{
		KindPage, KindArea, KindParagraph, KindLine,
		KindHeader, KindTextFloat, KindCaption, KindWord,
	}
}

// KindOf maps a single hOCR class name to its Kind.
func KindOf(class string) Kind {
	return classKinds[class]
}

// Class returns the hOCR class name of k, or "" for Unrecognized.
func (k Kind) Class() string {
	return kindClasses[k]
}

func (k Kind) String() string {
	if class, ok := kindClasses[k]; ok {
		return class
	}
	if k == Unrecognized {
		return "unrecognized"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// BoundingBox represents a rectangle in image coordinates, origin top-left.
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 int // Left coordinate
	Y1 int // Top coordinate
	X2 int // Right coordinate
	Y2 int // Bottom coordinate
}

// NewBoundingBox creates a bounding box from the x1, y1, x2, y2 coordinates
// found in hOCR 'bbox' properties.
func NewBoundingBox(x1, y1, x2, y2 int) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width of the box.
func (b BoundingBox) Width() int { return b.X2 - b.X1 }

// Height of the box.
func (b BoundingBox) Height() int { return b.Y2 - b.Y1 }

// String formats the box as an hOCR title property.
func (b BoundingBox) String() string {
	return fmt.Sprintf("bbox %d %d %d %d", b.X1, b.Y1, b.X2, b.Y2)
}

// Node is one element of the hOCR layout tree.
type Node struct {
	Kind     Kind              // Layout element kind
	Class    string            // Original class attribute
	ID       string            // Unique identifier
	Lang     string            // Language code
	BBox     BoundingBox       // Element coordinates
	Props    map[string]string // Other title properties (x_wconf, baseline, ...)
	Text     string            // Direct string content, empty unless the node has a single text leaf
	Children []*Node           // Child elements in document order
}

// Recognized reports whether n belongs to the hOCR vocabulary.
func (n *Node) Recognized() bool {
	return n != nil && n.Kind != Unrecognized
}

// Walk visits n and its descendants depth-first in document order.
// Returning false from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Document represents an entire hOCR document
type Document struct {
	Title       string            // Document title
	Description string            // Document description
	Language    string            // Document language
	Metadata    map[string]string // ocr-system, ocr-capabilities, ...
	Body        []*Node           // Elements directly under <body>
}

// Pages returns every page node of the document in document order.
func (d *Document) Pages() []*Node {
	var pages []*Node
	for _, n := range d.Body {
		n.Walk(func(n *Node) bool {
			if n.Kind == KindPage {
				pages = append(pages, n)
				return false
			}
			return true
		})
	}
	return pages
}

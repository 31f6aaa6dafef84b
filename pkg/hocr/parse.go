package hocr

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrMissingBBox is returned when a recognized element has no usable bbox in its title.
var ErrMissingBBox = errors.New("missing or malformed bbox")

var (
	bboxPattern    = regexp.MustCompile(`bbox ([0-9]+) ([0-9]+) ([0-9]+) ([0-9]+)`)
	charsetPattern = regexp.MustCompile(`(?i)charset\s*=\s*["']?([A-Za-z0-9_:.\-]+)`)
)

// ParseHOCR converts raw hOCR data into a Document tree.
//
// Only the children of <body> are visited. An element is recognized when one of
// its class tokens belongs to the hOCR vocabulary; unrecognized elements are
// kept as Unrecognized leaves and their subtrees are not parsed.
func ParseHOCR(data []byte) (*Document, error) {
	decoded, err := decodeCharset(data)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(expandSelfClosing(decoded)))
	if err != nil {
		return nil, fmt.Errorf("error parsing hOCR markup: %w", err)
	}

	result := &Document{Metadata: make(map[string]string)}
	extractDocumentMeta(result, doc)

	body := findElement(doc, "body")
	if body == nil {
		return result, nil
	}
	result.Body, err = parseChildren(body)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBox extracts the bbox property from a title string.
func ParseBoundingBox(title string) (BoundingBox, error) {
	m := bboxPattern.FindStringSubmatch(title)
	if m == nil {
		return BoundingBox{}, fmt.Errorf("%w in title %q", ErrMissingBBox, title)
	}
	var coords [4]int
	for i := range coords {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return BoundingBox{}, fmt.Errorf("%w: coordinate %q: %v", ErrMissingBBox, m[i+1], err)
		}
		coords[i] = v
	}
	return NewBoundingBox(coords[0], coords[1], coords[2], coords[3]), nil
}

// voidElements never take an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "keygen": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// expandSelfClosing rewrites XHTML self-closing tags such as <span/> into an
// explicit start and end tag. The HTML5 parser ignores the trailing slash on
// non-void elements, which would nest the following siblings inside them.
func expandSelfClosing(data []byte) []byte {
	z := html.NewTokenizer(bytes.NewReader(data))
	var buf bytes.Buffer
	buf.Grow(len(data))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return data
			}
			return buf.Bytes()
		}
		buf.Write(z.Raw())
		if tt != html.SelfClosingTagToken {
			continue
		}
		name, _ := z.TagName()
		if !voidElements[string(name)] {
			buf.WriteString("</")
			buf.Write(name)
			buf.WriteString(">")
		}
	}
}

// decodeCharset converts data to UTF-8 when a charset declaration names another encoding.
func decodeCharset(data []byte) ([]byte, error) {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	m := charsetPattern.FindSubmatch(head)
	if m == nil {
		return data, nil
	}
	name := strings.ToLower(string(m[1]))
	if name == "utf-8" || name == "utf8" {
		return data, nil
	}

	var enc encoding.Encoding = charmap.ISO8859_1
	if e, err := htmlindex.Get(name); err == nil {
		enc = e
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return decoded, nil
}

func parseChildren(parent *html.Node) ([]*Node, error) {
	var nodes []*Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		n, err := parseElement(c)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func parseElement(e *html.Node) (*Node, error) {
	class := getAttrVal(e, "class")
	node := &Node{
		Kind:  classKind(class),
		Class: class,
		ID:    getAttrVal(e, "id"),
		Lang:  getAttrVal(e, "lang"),
	}
	if node.Kind == Unrecognized {
		return node, nil
	}

	title, ok := lookupAttr(e, "title")
	if !ok {
		return nil, fmt.Errorf("%s %q: %w: no title attribute", node.Kind, node.ID, ErrMissingBBox)
	}
	bbox, err := ParseBoundingBox(title)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", node.Kind, node.ID, err)
	}
	node.BBox = bbox

	for key, values := range ParseTitle(title) {
		if key == "bbox" {
			continue
		}
		if node.Props == nil {
			node.Props = make(map[string]string)
		}
		node.Props[key] = strings.Join(values, " ")
	}

	node.Text = directString(e)
	node.Children, err = parseChildren(e)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// classKind returns the kind of the first class token that belongs to the vocabulary.
func classKind(class string) Kind {
	for _, token := range strings.Fields(class) {
		if k := KindOf(token); k != Unrecognized {
			return k
		}
	}
	return Unrecognized
}

// directString returns the string content of n when n has exactly one child,
// following chains of single-child elements such as <span><strong>word</strong></span>.
func directString(n *html.Node) string {
	c := n.FirstChild
	if c == nil || c.NextSibling != nil {
		return ""
	}
	switch c.Type {
	case html.TextNode:
		return c.Data
	case html.ElementNode:
		return directString(c)
	}
	return ""
}

// extractDocumentMeta extracts document-level metadata from the head section
func extractDocumentMeta(result *Document, doc *html.Node) {
	if root := findElement(doc, "html"); root != nil {
		for _, a := range root.Attr {
			if a.Key == "lang" || a.Key == "xml:lang" {
				result.Language = a.Val
				break
			}
		}
	}

	head := findElement(doc, "head")
	if head == nil {
		return
	}

	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			if c.FirstChild != nil {
				result.Title = strings.TrimSpace(c.FirstChild.Data)
			}
		case "meta":
			name := getAttrVal(c, "name")
			content := getAttrVal(c, "content")
			if name == "" || content == "" {
				continue
			}
			switch name {
			case "ocr-system", "ocr-capabilities", "ocr-number-of-pages", "ocr-langs":
				result.Metadata[name] = content
			case "description":
				result.Description = content
			case "dc.language":
				result.Language = content
			}
		}
	}
}

// findElement returns the first element named tag in a depth-first walk.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

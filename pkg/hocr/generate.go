package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"sort"
	"strings"
	"text/template"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var kindTags = map[Kind]string{
	KindPage:      "div",
	KindArea:      "div",
	KindParagraph: "p",
}

// GenerateHOCRDocument renders a Document as hOCR HTML.
// Unrecognized nodes are not rendered.
func GenerateHOCRDocument(doc *Document) (string, error) {
	tmpl, err := template.New("hocr.tmpl").Funcs(template.FuncMap{
		"trim":       strings.TrimSpace,
		"escape":     html.EscapeString,
		"tag":        nodeTag,
		"title":      nodeTitle,
		"recognized": recognizedChildren,
	}).ParseFS(templateFS, "templates/hocr.tmpl")
	if err != nil {
		return "", fmt.Errorf("error parsing hOCR template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}

func nodeTag(n *Node) string {
	if tag, ok := kindTags[n.Kind]; ok {
		return tag
	}
	return "span"
}

// nodeTitle rebuilds the title attribute: bbox first, then the other properties sorted by key.
func nodeTitle(n *Node) string {
	parts := []string{n.BBox.String()}
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, strings.TrimSpace(k+" "+n.Props[k]))
	}
	return strings.Join(parts, "; ")
}

func recognizedChildren(n *Node) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Recognized() {
			out = append(out, c)
		}
	}
	return out
}

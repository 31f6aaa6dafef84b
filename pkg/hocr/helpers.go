package hocr

import (
	"strconv"
	"strings"
)

// ExtractText extracts all word text from an hOCR document.
// Words are separated by spaces, lines by newlines and pages by a blank line.
func ExtractText(doc *Document) string {
	var pages []string
	for _, page := range doc.Pages() {
		var builder strings.Builder
		extractLines(&builder, page)
		if text := strings.TrimSpace(builder.String()); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n")
}

// extractLines writes one output line per line-like element of n.
func extractLines(builder *strings.Builder, n *Node) {
	switch n.Kind {
	case KindLine, KindHeader, KindTextFloat, KindCaption:
		builder.WriteString(strings.Join(Words(n), " "))
		builder.WriteString("\n")
		return
	case KindWord:
		// Words outside of any line
		builder.WriteString(strings.TrimSpace(n.Text))
		builder.WriteString("\n")
		return
	}
	for _, c := range n.Children {
		if c.Recognized() {
			extractLines(builder, c)
		}
	}
}

// Words returns the trimmed, non-empty text of every word below n.
func Words(n *Node) []string {
	var words []string
	n.Walk(func(w *Node) bool {
		if !w.Recognized() && w != n {
			return false
		}
		if w.Kind == KindWord {
			if t := strings.TrimSpace(w.Text); t != "" {
				words = append(words, t)
			}
			return false
		}
		return true
	})
	return words
}

// MergeDocuments combines single-page documents into one multi-page document.
// Metadata of the first document wins; ocr-number-of-pages is recomputed.
func MergeDocuments(docs ...*Document) *Document {
	merged := &Document{Metadata: make(map[string]string)}
	first := true
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if first {
			first = false
			merged.Title = doc.Title
			merged.Description = doc.Description
			merged.Language = doc.Language
			for k, v := range doc.Metadata {
				merged.Metadata[k] = v
			}
		}
		merged.Body = append(merged.Body, doc.Body...)
	}
	merged.Metadata["ocr-number-of-pages"] = strconv.Itoa(len(merged.Pages()))
	return merged
}

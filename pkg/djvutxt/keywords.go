package djvutxt

import (
	"fmt"

	"github.com/gardar/djvuscan/pkg/hocr"
)

// djvused wants records in strictly decreasing order of importance
// (page > column > region > para > line > word > char). Header, text-float
// and caption areas can sit next to lower-ranked siblings, so they are
// written as lines rather than regions.
var keywords = map[hocr.Kind]string{
	hocr.KindPage:      "page",
	hocr.KindArea:      "column",
	hocr.KindParagraph: "para",
	hocr.KindLine:      "line",
	hocr.KindHeader:    "line",
	hocr.KindTextFloat: "line",
	hocr.KindCaption:   "line",
	hocr.KindWord:      "word",
}

// Keyword returns the hidden-text record keyword for an hOCR kind.
func Keyword(k hocr.Kind) (string, error) {
	if kw, ok := keywords[k]; ok {
		return kw, nil
	}
	return "", fmt.Errorf("%w: %s has no hidden-text keyword", ErrUnsupportedInput, k)
}

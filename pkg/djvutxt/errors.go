package djvutxt

import "errors"

var (
	// ErrMalformedInput reports hOCR that cannot be converted: a recognized
	// element without a usable bbox, or a missing page root in strict mode.
	ErrMalformedInput = errors.New("malformed hOCR input")

	// ErrUnsupportedInput reports an element kind with no hidden-text keyword.
	ErrUnsupportedInput = errors.New("unsupported hOCR element")
)

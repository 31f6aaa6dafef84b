package config

import (
	"fmt"
	"sort"
	"strings"
)

const landscapeSuffix = "-landscape"

// PageSize is a document format fed to the scanner, in portrait orientation.
type PageSize struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

// Landscape returns the size rotated by a quarter turn.
func (p PageSize) Landscape() PageSize {
	return PageSize{Name: p.Name + landscapeSuffix, WidthMM: p.HeightMM, HeightMM: p.WidthMM}
}

var pageSizes = map[string]PageSize{
	"a4":               {Name: "a4", WidthMM: 210, HeightMM: 297},
	"a5":               {Name: "a5", WidthMM: 148, HeightMM: 210},
	"a6":               {Name: "a6", WidthMM: 105, HeightMM: 148},
	"a7":               {Name: "a7", WidthMM: 74, HeightMM: 105},
	"a8":               {Name: "a8", WidthMM: 52, HeightMM: 74},
	"credit-card":      {Name: "credit-card", WidthMM: 86, HeightMM: 55},
	"care-certificate": {Name: "care-certificate", WidthMM: 106, HeightMM: 283},
}

// LookupPageSize resolves a named size. A "-landscape" suffix swaps the dimensions.
func LookupPageSize(name string) (PageSize, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	base, landscape := strings.CutSuffix(key, landscapeSuffix)
	size, ok := pageSizes[base]
	if !ok {
		return PageSize{}, fmt.Errorf("unknown page size %q", name)
	}
	if landscape {
		return size.Landscape(), nil
	}
	return size, nil
}

// PageSizes lists every named size, each portrait entry followed by its landscape variant.
func PageSizes() []PageSize {
	names := make([]string, 0, len(pageSizes))
	for name := range pageSizes {
		names = append(names, name)
	}
	sort.Strings(names)

	sizes := make([]PageSize, 0, 2*len(names))
	for _, name := range names {
		sizes = append(sizes, pageSizes[name], pageSizes[name].Landscape())
	}
	return sizes
}

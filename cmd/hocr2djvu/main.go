// hocr2djvu converts hOCR files to djvu hidden-text scripts.
//
// Usage:
//
//	hocr2djvu [--strict] [--stdout] file.hocr...
//
// Each file.hocr is written to file.djvutxt, ready for
//
//	djvused -e 'select 1; set-txt file.djvutxt; save' file.djvu
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/gardar/djvuscan/internal/cli"
)

func main() {
	if err := fang.Execute(context.Background(), cli.NewHOCR2DjvuCmd()); err != nil {
		os.Exit(1)
	}
}

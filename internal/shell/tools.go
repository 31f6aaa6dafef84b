package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Tool names.
const (
	ScanImage = "scanimage"
	Magick    = "magick"
	CJB2      = "cjb2"
	Djvused   = "djvused"
	Djvm      = "djvm"
	Tesseract = "tesseract"
)

// Scanner failures reported by scanimage exit statuses.
var (
	ErrScannerNotFound = errors.New("scanner not found")
	ErrFeederJammed    = errors.New("document feeder jammed")
	ErrFeederEmpty     = errors.New("document feeder out of documents")
)

var scanExitErrors = map[int]error{
	1: ErrScannerNotFound,
	6: ErrFeederJammed,
	7: ErrFeederEmpty,
}

// ScanOptions are the scanimage settings for one page.
type ScanOptions struct {
	Device     string // empty uses the SANE default device
	WidthMM    float64
	HeightMM   float64
	Resolution int
	Deskew     bool
}

// Scan acquires one page into output. scanimage picks the image format from
// the output extension.
func Scan(ctx context.Context, r Runner, opts ScanOptions, output string) error {
	_, err := r.Run(ctx, ScanImage, ScanArgs(opts, output)...)
	if err == nil {
		return nil
	}
	if sentinel, ok := scanExitErrors[ExitCode(err)]; ok {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

// ScanArgs returns the scanimage command line for opts.
func ScanArgs(opts ScanOptions, output string) []string {
	var args []string
	if opts.Device != "" {
		args = append(args, "-d", opts.Device)
	}
	deskew := "no"
	if opts.Deskew {
		deskew = "yes"
	}
	args = append(args,
		"--AutoDeskew="+deskew,
		"--AutoDocumentSize=no",
		"-x", formatMM(opts.WidthMM),
		"-y", formatMM(opts.HeightMM),
		"--resolution="+strconv.Itoa(opts.Resolution),
		"-o", output,
	)
	return args
}

// Threshold converts a grayscale scan into a bitonal image.
func Threshold(ctx context.Context, r Runner, input, output string, percent int) error {
	_, err := r.Run(ctx, Magick, input, "-threshold", strconv.Itoa(percent)+"%", output)
	return err
}

// EncodeBitonal compresses a bitonal image into a single-page djvu.
func EncodeBitonal(ctx context.Context, r Runner, input, output string, lossLevel int) error {
	_, err := r.Run(ctx, CJB2, input, output, "-losslevel", strconv.Itoa(lossLevel))
	return err
}

// SetText attaches a hidden-text script to the first page of a djvu file.
func SetText(ctx context.Context, r Runner, djvu, script string) error {
	_, err := r.Run(ctx, Djvused, "-e", "select 1; set-txt "+djvusedQuote(script)+"; save", djvu)
	return err
}

var djvusedEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// djvusedQuote quotes s as a djvused string argument so paths may contain blanks.
func djvusedQuote(s string) string {
	return `"` + djvusedEscaper.Replace(s) + `"`
}

// Bundle merges single-page djvu files into a bundled multi-page document.
// Pages are bundled in the order given.
func Bundle(ctx context.Context, r Runner, output string, pages []string) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to bundle into %s", output)
	}
	args := append([]string{"-c", output}, pages...)
	_, err := r.Run(ctx, Djvm, args...)
	return err
}

// RecognizeHOCR runs tesseract on image and writes outBase.hocr.
func RecognizeHOCR(ctx context.Context, r Runner, binary, image, outBase, language string) error {
	if binary == "" {
		binary = Tesseract
	}
	_, err := r.Run(ctx, binary, "-l", language, image, outBase, "hocr")
	return err
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

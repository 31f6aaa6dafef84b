package session

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/gardar/djvuscan/internal/config"
	"github.com/gardar/djvuscan/internal/shell"
	"github.com/gardar/djvuscan/pkg/hocr"
)

// ScanPage scans page index, recognizes it and converts it to a bitonal image
// for the output format. Only a scanner failure fails the page; OCR and
// conversion problems are logged and the page is kept.
func (s *Session) ScanPage(ctx context.Context, index int) error {
	base := s.pageBase(index)
	image := base + ".tiff"

	width, height, err := s.cfg.Scanner.Dimensions()
	if err != nil {
		return err
	}
	opts := shell.ScanOptions{
		Device:     s.cfg.Scanner.Device,
		WidthMM:    width,
		HeightMM:   height,
		Resolution: s.cfg.Scanner.Resolution,
		Deskew:     s.cfg.Scanner.Deskew,
	}
	if err := shell.Scan(ctx, s.runner, opts, image); err != nil {
		return err
	}

	page := Page{Index: index, Image: image, ScannedAt: s.now()}
	logger := log.With().Int("page", index).Logger()

	if path, err := s.engine.Recognize(ctx, image, base); err != nil {
		logger.Warn().Err(err).Str("engine", s.engine.Name()).Msg("OCR failed, page will have no text")
	} else {
		page.HOCR = path
		logRecognized(path, index)
	}

	bitonal := s.bitonalPath(index)
	if err := shell.Threshold(ctx, s.runner, image, bitonal, s.cfg.Output.Threshold); err != nil {
		logger.Warn().Err(err).Msg("Bitonal conversion failed, retrying on save")
	} else {
		page.Bitonal = bitonal
	}

	s.manifest.Put(page)
	logger.Info().Str("image", image).Msg("Page scanned")
	return nil
}

// bitonalPath is the bitonal image of page index: PBM for cjb2, PNG for PDF embedding.
func (s *Session) bitonalPath(index int) string {
	if s.cfg.Output.Format == config.FormatPDF {
		return s.pageBase(index) + ".png"
	}
	return s.pageBase(index) + ".pbm"
}

// logRecognized reports how much text a page yielded.
func logRecognized(path string, index int) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	doc, err := hocr.ParseHOCR(data)
	if err != nil {
		log.Warn().Err(err).Int("page", index).Msg("Recognized page is not valid hOCR")
		return
	}
	words := 0
	for _, p := range doc.Pages() {
		words += len(hocr.Words(p))
	}
	log.Debug().Int("page", index).Int("words", words).
		Str("text", preview(hocr.ExtractText(doc), 60)).Msg("Page recognized")
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string(r[:n]))
}

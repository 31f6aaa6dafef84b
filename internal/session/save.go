package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/gardar/djvuscan/internal/config"
	"github.com/gardar/djvuscan/internal/shell"
	"github.com/gardar/djvuscan/pkg/djvutxt"
	"github.com/gardar/djvuscan/pkg/hocr"
	"github.com/gardar/djvuscan/pkg/pdfocr"
)

// ErrNoPages is returned when saving a session without scanned pages.
var ErrNoPages = errors.New("no pages scanned")

// Save assembles the scanned pages into the output document and returns its path.
func (s *Session) Save(ctx context.Context, out io.Writer) (string, error) {
	if len(s.manifest.Pages) == 0 {
		return "", ErrNoPages
	}
	switch s.cfg.Output.Format {
	case config.FormatPDF:
		return s.savePDF(ctx, out)
	default:
		return s.saveDjvu(ctx, out)
	}
}

func (s *Session) saveDjvu(ctx context.Context, out io.Writer) (string, error) {
	var pages []string
	for _, p := range s.manifest.Pages {
		djvu, err := s.encodePage(ctx, p)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", p.Index, err)
		}
		pages = append(pages, djvu)

		if p.HOCR == "" {
			fmt.Fprintf(out, "No OCR data for page %d, saved without text\n", p.Index)
			continue
		}
		if err := s.attachText(ctx, p, djvu); err != nil {
			log.Warn().Err(err).Int("page", p.Index).Msg("Hidden text not added")
			fmt.Fprintf(out, "Unable to add OCR data to page %d, saved without text\n", p.Index)
			continue
		}
		fmt.Fprintf(out, "Adding ocr data to page %d\n", p.Index)
	}

	output := s.cfg.Output.OutputPath()
	if err := shell.Bundle(ctx, s.runner, output, pages); err != nil {
		return "", fmt.Errorf("failed to bundle pages: %w", err)
	}
	return output, nil
}

// bitonalImage returns the bitonal image of p, converting the scan now when
// it was not converted at scan time or was converted for another format.
func (s *Session) bitonalImage(ctx context.Context, p Page) (string, error) {
	bitonal := s.bitonalPath(p.Index)
	if p.Bitonal == bitonal {
		return bitonal, nil
	}
	if err := shell.Threshold(ctx, s.runner, p.Image, bitonal, s.cfg.Output.Threshold); err != nil {
		return "", err
	}
	return bitonal, nil
}

// encodePage compresses one page into a single-page djvu.
func (s *Session) encodePage(ctx context.Context, p Page) (string, error) {
	bitonal, err := s.bitonalImage(ctx, p)
	if err != nil {
		return "", err
	}
	djvu := s.pageBase(p.Index) + ".djvu"
	if err := shell.EncodeBitonal(ctx, s.runner, bitonal, djvu, s.cfg.Output.LossLevel); err != nil {
		return "", err
	}
	return djvu, nil
}

// attachText converts the page hOCR to a hidden-text script and merges it into djvu.
func (s *Session) attachText(ctx context.Context, p Page, djvu string) error {
	data, err := os.ReadFile(p.HOCR)
	if err != nil {
		return err
	}
	script, stats, err := djvutxt.ConvertHOCRWithStats(data, djvutxt.Options{})
	if err != nil {
		return err
	}
	if script == "" {
		return fmt.Errorf("no recognized text in %s", p.HOCR)
	}

	txt := s.pageBase(p.Index) + ".djvutxt"
	if err := os.WriteFile(txt, []byte(script), 0o644); err != nil {
		return err
	}
	log.Debug().Int("page", p.Index).Int("records", stats.Records).Int("words", stats.Words).
		Msg("Hidden text written")
	return shell.SetText(ctx, s.runner, djvu, txt)
}

func (s *Session) savePDF(ctx context.Context, out io.Writer) (string, error) {
	var docs []*hocr.Document
	var images [][]byte
	for _, p := range s.manifest.Pages {
		bitonal, err := s.bitonalImage(ctx, p)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", p.Index, err)
		}
		image, err := os.ReadFile(bitonal)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", p.Index, err)
		}
		page, err := pdfPage(p, image)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", p.Index, err)
		}
		if len(hocr.Words(page)) == 0 {
			fmt.Fprintf(out, "No OCR data for page %d, saved without text\n", p.Index)
		}
		docs = append(docs, &hocr.Document{Body: []*hocr.Node{page}})
		images = append(images, image)
	}

	pdfConfig := pdfocr.DefaultConfig()
	pdfConfig.DPI = float64(s.cfg.Scanner.Resolution)
	pdfConfig.Logger = log.Logger

	data, err := pdfocr.AssembleWithOCR(hocr.MergeDocuments(docs...), images, pdfConfig)
	if err != nil {
		return "", err
	}
	output := s.cfg.Output.OutputPath()
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", output, err)
	}
	return output, nil
}

// pdfPage returns the OCR page of p, or an empty page sized to the image when
// there is no usable hOCR.
func pdfPage(p Page, image []byte) (*hocr.Node, error) {
	if p.HOCR != "" {
		page, err := ocrPage(p.HOCR)
		if err == nil {
			return page, nil
		}
		log.Warn().Err(err).Int("page", p.Index).Msg("Unusable hOCR, page will have no text")
	}
	return pdfocr.PageFromImage(image)
}

// ocrPage returns the first page of the hOCR file at path.
func ocrPage(path string) (*hocr.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := hocr.ParseHOCR(data)
	if err != nil {
		return nil, err
	}
	pages := doc.Pages()
	if len(pages) == 0 {
		return nil, fmt.Errorf("no ocr_page in %s", path)
	}
	return pages[0], nil
}

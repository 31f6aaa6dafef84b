package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gardar/djvuscan/pkg/hocr"
	"github.com/gardar/djvuscan/pkg/pdfocr"
)

var imageExtensions = map[string]bool{
	".tif": true, ".tiff": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

func newPDFCmd() *cobra.Command {
	var (
		hocrPaths  []string
		imagePaths []string
		imageDir   string
		output     string
		overwrite  bool
		debug      bool
		dpi        float64
		startPage  int
	)

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Assemble page images and their hOCR into a searchable PDF",
		Example: `  djvuscan pdf --hocr 1.hocr,2.hocr --images 1.tiff,2.tiff -o out.pdf
  djvuscan pdf --hocr book.hocr --image-dir ./pages -o book.pdf --overwrite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if imageDir != "" {
				found, err := listImages(imageDir)
				if err != nil {
					return err
				}
				imagePaths = append(imagePaths, found...)
			}
			if len(imagePaths) == 0 {
				return errors.New("provide --images or --image-dir")
			}

			if _, err := os.Stat(output); err == nil && !overwrite {
				return fmt.Errorf("output file %s already exists, use --overwrite to replace it", output)
			}

			doc, err := loadHOCR(hocrPaths)
			if err != nil {
				return err
			}

			var images [][]byte
			for _, path := range imagePaths {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				images = append(images, data)
			}

			pdfConfig := pdfocr.DefaultConfig()
			pdfConfig.Debug = debug
			pdfConfig.DPI = dpi
			pdfConfig.StartPage = startPage
			pdfConfig.Logger = cmd.ErrOrStderr()

			data, err := pdfocr.AssembleWithOCR(doc, images, pdfConfig)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			log.Info().Str("file", output).Int("pages", len(doc.Pages())).Msg("PDF written")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&hocrPaths, "hocr", nil, "hOCR files, one or more pages each, in page order")
	cmd.Flags().StringSliceVar(&imagePaths, "images", nil, "Page images in page order")
	cmd.Flags().StringVar(&imageDir, "image-dir", "", "Directory containing page images, taken in name order")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PDF path")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite the output PDF if it already exists")
	cmd.Flags().BoolVar(&debug, "debug", false, "Show the OCR text and word boxes in red")
	cmd.Flags().Float64Var(&dpi, "dpi", 300, "Resolution the pages were scanned at")
	cmd.Flags().IntVar(&startPage, "start-page", 1, "First page to include (1-based)")
	_ = cmd.MarkFlagRequired("hocr")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// loadHOCR parses every file and merges them into one document.
func loadHOCR(paths []string) (*hocr.Document, error) {
	var docs []*hocr.Document
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read hOCR: %w", err)
		}
		doc, err := hocr.ParseHOCR(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		docs = append(docs, doc)
	}
	return hocr.MergeDocuments(docs...), nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}
	var images []string
	for _, e := range entries {
		if !e.IsDir() && imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

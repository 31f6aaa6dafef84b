package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gardar/djvuscan/internal/config"
	"github.com/gardar/djvuscan/internal/ocr"
	"github.com/gardar/djvuscan/internal/session"
	"github.com/gardar/djvuscan/internal/shell"
)

// scanFlags maps config keys to the scan flags overriding them.
var scanFlags = map[string]string{
	"scanner.device":    "device",
	"scanner.page_size": "page-size",
	"ocr.engine":        "engine",
	"ocr.language":      "language",
	"output.format":     "format",
	"output.name":       "name",
	"output.work_dir":   "work-dir",
	"output.keep_temp":  "keep-temp",
}

func newScanCmd(a *app) *cobra.Command {
	var resume bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan pages interactively and save them as one document",
		Long: `Scan pages interactively. At each prompt enter:

  q        stop and cancel
  s        stop and save
  number   go back to this page
  anything else scans the next page

Each page is recognized right after it is scanned. On save the pages are
assembled into <name>.djvu or <name>.pdf in the work directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, scanFlags)
			if err != nil {
				return err
			}
			if err := shell.Check(a.runner, session.RequiredTools(cfg)...); err != nil {
				return err
			}

			engine, err := ocr.New(cfg.OCR, a.runner)
			if err != nil {
				return err
			}
			defer engine.Close()

			var s *session.Session
			if resume {
				s, err = session.Resume(cfg, a.runner, engine)
			} else {
				s, err = session.New(cfg, a.runner, engine)
			}
			if err != nil {
				return err
			}

			log.Debug().Str("engine", engine.Name()).Str("format", cfg.Output.Format).
				Str("work_dir", cfg.Output.WorkDir).Msg("Scan session started")

			res, err := s.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("scan session %s: %w", res.Outcome, err)
			}
			log.Info().Stringer("outcome", res.Outcome).Int("pages", res.Pages).Str("output", res.Output).
				Msg("Scan session ended")
			return nil
		},
	}

	cmd.Flags().BoolVar(&resume, "resume", false, "Continue the session recorded in the work directory")
	cmd.Flags().String("device", "", "SANE device name")
	cmd.Flags().String("page-size", "a4", "Named page size, see the sizes command")
	cmd.Flags().String("engine", config.EngineTesseract, "OCR engine: tesseract, gosseract or documentai")
	cmd.Flags().String("language", "fra", "OCR language")
	cmd.Flags().String("format", config.FormatDjvu, "Output format: djvu or pdf")
	cmd.Flags().String("name", "0", "Output file name without extension")
	cmd.Flags().String("work-dir", ".", "Directory for page files and the output")
	cmd.Flags().Bool("keep-temp", false, "Keep page files after the session ends")
	return cmd
}

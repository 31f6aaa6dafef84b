// Package session drives an interactive batch scan: pages are scanned one at
// a time on request, recognized, and finally assembled into a single djvu or
// PDF document.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gardar/djvuscan/internal/config"
	"github.com/gardar/djvuscan/internal/ocr"
	"github.com/gardar/djvuscan/internal/shell"
)

// PagesDir holds the per-page intermediate files inside the work directory.
const PagesDir = "pages"

const prompt = "q: stop and cancel\n" +
	"s: stop and save\n" +
	"number: go back to this page\n" +
	"anything else: scan page %d and keep going.\n"

// Outcome is how a session ended.
type Outcome int

const (
	Cancelled   Outcome = iota // q was entered
	Saved                      // the output document was written
	Interrupted                // input ended; the session can be resumed
)

func (o Outcome) String() string {
	switch o {
	case Cancelled:
		return "cancelled"
	case Saved:
		return "saved"
	case Interrupted:
		return "interrupted"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result reports the end of a session.
type Result struct {
	Outcome Outcome
	Output  string // path of the saved document
	Pages   int
}

// Session is one batch scan.
type Session struct {
	cfg      *config.Config
	runner   shell.Runner
	engine   ocr.Engine
	manifest *Manifest
	now      func() time.Time
}

// New starts a fresh session. Any manifest left in the work directory is replaced.
func New(cfg *config.Config, runner shell.Runner, engine ocr.Engine) (*Session, error) {
	s := &Session{cfg: cfg, runner: runner, engine: engine, now: time.Now}
	if err := os.MkdirAll(s.pagesDir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	s.manifest = &Manifest{
		Format:    cfg.Output.Format,
		Name:      cfg.Output.Name,
		StartedAt: s.now(),
		Next:      1,
	}
	return s, nil
}

// Resume continues the session recorded in the work directory.
func Resume(cfg *config.Config, runner shell.Runner, engine ocr.Engine) (*Session, error) {
	m, err := LoadManifest(cfg.Output.WorkDir)
	if err != nil {
		return nil, err
	}
	if m.Format != cfg.Output.Format {
		log.Warn().Str("recorded", m.Format).Str("configured", cfg.Output.Format).
			Msg("Output format changed since the session started, using the configured format")
		m.Format = cfg.Output.Format
	}
	if err := os.MkdirAll(filepath.Join(cfg.Output.WorkDir, PagesDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	log.Info().Int("pages", len(m.Pages)).Int("next", m.Next).Msg("Resuming scan session")
	return &Session{cfg: cfg, runner: runner, engine: engine, manifest: m, now: time.Now}, nil
}

// RequiredTools lists the executables a session with cfg runs.
func RequiredTools(cfg *config.Config) []string {
	tools := []string{shell.ScanImage, shell.Magick}
	if cfg.OCR.Engine == config.EngineTesseract {
		tools = append(tools, cfg.OCR.TesseractPath)
	}
	if cfg.Output.Format == config.FormatDjvu {
		tools = append(tools, shell.CJB2, shell.Djvused, shell.Djvm)
	}
	return tools
}

// Manifest returns the session state.
func (s *Session) Manifest() *Manifest {
	return s.manifest
}

// Run reads commands from in until the user cancels or saves, or in is exhausted.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) (Result, error) {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return Result{Outcome: Interrupted, Pages: len(s.manifest.Pages)}, err
		}

		fmt.Fprintf(out, prompt, s.manifest.Next)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return Result{Outcome: Interrupted}, fmt.Errorf("failed to read command: %w", err)
			}
			fmt.Fprintln(out, "Input closed, session kept for --resume")
			return Result{Outcome: Interrupted, Pages: len(s.manifest.Pages)}, nil
		}

		cmd := ParseCommand(scanner.Text())
		switch cmd.Kind {
		case CommandCancel:
			s.cleanup()
			fmt.Fprintln(out, "Exited without saving output")
			return Result{Outcome: Cancelled, Pages: len(s.manifest.Pages)}, nil

		case CommandSave:
			path, err := s.Save(ctx, out)
			if err != nil {
				return Result{Outcome: Interrupted, Pages: len(s.manifest.Pages)}, err
			}
			s.cleanup()
			fmt.Fprintf(out, "File saved to %s\n", path)
			return Result{Outcome: Saved, Output: path, Pages: len(s.manifest.Pages)}, nil

		case CommandGoto:
			s.manifest.Next = cmd.Page
			if err := s.manifest.Save(s.cfg.Output.WorkDir); err != nil {
				return Result{Outcome: Interrupted}, err
			}

		case CommandScan:
			err := s.ScanPage(ctx, s.manifest.Next)
			switch {
			case err == nil:
				s.manifest.Next++
				if err := s.manifest.Save(s.cfg.Output.WorkDir); err != nil {
					return Result{Outcome: Interrupted}, err
				}
			case ctx.Err() != nil:
				return Result{Outcome: Interrupted, Pages: len(s.manifest.Pages)}, ctx.Err()
			default:
				fmt.Fprintln(out, scanMessage(err))
				log.Debug().Err(err).Int("page", s.manifest.Next).Msg("Scan failed")
			}
		}
	}
}

func scanMessage(err error) string {
	switch {
	case errors.Is(err, shell.ErrScannerNotFound):
		return "Scanner not found, check that it is connected and powered on"
	case errors.Is(err, shell.ErrFeederEmpty):
		return "Feeder is empty, insert a page and try again"
	case errors.Is(err, shell.ErrFeederJammed):
		return "Feeder is jammed, clear it and try again"
	}
	return fmt.Sprintf("Scan failed: %v", err)
}

func (s *Session) pagesDir() string {
	return filepath.Join(s.cfg.Output.WorkDir, PagesDir)
}

// pageBase is the path of page index without extension.
func (s *Session) pageBase(index int) string {
	return filepath.Join(s.pagesDir(), fmt.Sprintf("%d", index))
}

// cleanup removes intermediate files unless they should be kept.
func (s *Session) cleanup() {
	if s.cfg.Output.KeepTemp {
		return
	}
	if err := os.RemoveAll(s.pagesDir()); err != nil {
		log.Warn().Err(err).Msg("Failed to remove page files")
	}
	manifest := filepath.Join(s.cfg.Output.WorkDir, ManifestName)
	if err := os.Remove(manifest); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to remove session manifest")
	}
}

// djvuscan scans paper documents from a SANE scanner into searchable djvu or PDF files.
//
// Usage:
//
//	djvuscan scan [--resume] [--format djvu|pdf] [--name 0] [--work-dir .]
//	djvuscan hocr2djvu <file.hocr>... [--strict] [--stdout]
//	djvuscan pdf --hocr a.hocr,b.hocr --images a.tiff,b.tiff -o out.pdf
//	djvuscan sizes
//
// Settings are read from djvuscan.yml in the current directory or
// $HOME/.config/djvuscan, and from DJVUSCAN_* environment variables.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gardar/djvuscan/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := fang.Execute(ctx, cli.NewRootCmd()); err != nil {
		stop()
		os.Exit(1)
	}
}

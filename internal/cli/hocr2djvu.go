package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gardar/djvuscan/pkg/djvutxt"
)

func newHOCR2DjvuCmd() *cobra.Command {
	var (
		strict bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "hocr2djvu <file.hocr>...",
		Short: "Convert hOCR files to djvu hidden-text scripts",
		Long: `Convert hOCR files to the hidden-text script read by "djvused set-txt".

Each input is written next to itself with a .djvutxt extension. Nothing is
written for an input that fails to convert.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := djvutxt.Options{RequirePage: strict}
			for _, path := range args {
				script, stats, err := convertFile(path, opts)
				if err != nil {
					return err
				}
				if stdout {
					fmt.Fprintln(cmd.OutOrStdout(), script)
					continue
				}

				out := DjvutxtPath(path)
				if err := os.WriteFile(out, []byte(script), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				log.Info().Str("file", out).Int("pages", stats.Pages).Int("words", stats.Words).
					Msg("Hidden text written")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Reject elements outside of an ocr_page")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the scripts instead of writing .djvutxt files")
	return cmd
}

func convertFile(path string, opts djvutxt.Options) (string, djvutxt.Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", djvutxt.Stats{}, fmt.Errorf("failed to read hOCR: %w", err)
	}
	script, stats, err := djvutxt.ConvertHOCRWithStats(data, opts)
	if err != nil {
		return "", djvutxt.Stats{}, fmt.Errorf("%s: %w", path, err)
	}
	return script, stats, nil
}

// DjvutxtPath returns the hidden-text file written for an hOCR file.
func DjvutxtPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".djvutxt"
}

// Package cli wires the djvuscan commands.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gardar/djvuscan/internal/config"
	"github.com/gardar/djvuscan/internal/shell"
)

// app carries the collaborators shared by the commands.
type app struct {
	runner     shell.Runner
	viper      *viper.Viper
	configFile string
	logOutput  io.Writer
}

func newApp() *app {
	return &app{runner: shell.ExecRunner{}, viper: config.New(), logOutput: os.Stderr}
}

// NewRootCmd returns the djvuscan command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "djvuscan",
		Short: "Batch scan documents into searchable djvu or PDF files",
		Long: `Scan pages one at a time from a SANE scanner, recognize them with tesseract
or Google Document AI, and assemble them into a single djvu with hidden text
or a PDF with an invisible text layer.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setupLogging,
	}

	ll := os.Getenv("LOG_LEVEL")
	if ll == "" {
		ll = "INFO"
	}
	root.PersistentFlags().String("log-level", ll, "The logging level for the command")
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to a djvuscan.yml config file")

	root.AddCommand(
		newScanCmd(a),
		newHOCR2DjvuCmd(),
		newPDFCmd(),
		newSizesCmd(),
	)
	return root
}

// NewHOCR2DjvuCmd returns the converter as a standalone root command.
func NewHOCR2DjvuCmd() *cobra.Command {
	a := newApp()
	cmd := newHOCR2DjvuCmd()
	cmd.SilenceUsage = true
	cmd.PersistentPreRunE = a.setupLogging

	ll := os.Getenv("LOG_LEVEL")
	if ll == "" {
		ll = "INFO"
	}
	cmd.PersistentFlags().String("log-level", ll, "The logging level for the command")
	return cmd
}

func (a *app) setupLogging(cmd *cobra.Command, args []string) error {
	ll, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(ll))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: a.logOutput, NoColor: a.logOutput != os.Stderr})
	return nil
}

// loadConfig reads the configuration, letting flags of cmd override file and environment values.
func (a *app) loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	for key, flag := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := a.viper.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	return config.Load(a.viper, a.configFile)
}

// Package config loads djvuscan settings from defaults, an optional
// djvuscan.yml file and DJVUSCAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/gardar/djvuscan/pkg/gdocai"
)

// OCR engines.
const (
	EngineTesseract  = "tesseract"
	EngineGosseract  = "gosseract"
	EngineDocumentAI = "documentai"
)

// Output formats.
const (
	FormatDjvu = "djvu"
	FormatPDF  = "pdf"
)

// Config is the complete djvuscan configuration.
type Config struct {
	Scanner ScannerConfig `mapstructure:"scanner"`
	OCR     OCRConfig     `mapstructure:"ocr"`
	Output  OutputConfig  `mapstructure:"output"`
}

// ScannerConfig contains scanimage settings
type ScannerConfig struct {
	Device     string  `mapstructure:"device"`
	PageSize   string  `mapstructure:"page_size"`
	WidthMM    float64 `mapstructure:"width_mm"`  // overrides page_size when both dimensions are set
	HeightMM   float64 `mapstructure:"height_mm"`
	Resolution int     `mapstructure:"resolution"`
	Deskew     bool    `mapstructure:"deskew"`
}

// OCRConfig selects and tunes the recognition engine
type OCRConfig struct {
	Engine        string           `mapstructure:"engine"`
	Language      string           `mapstructure:"language"`
	TesseractPath string           `mapstructure:"tesseract_path"`
	DocumentAI    DocumentAIConfig `mapstructure:"documentai"`
}

// DocumentAIConfig addresses the Document AI processor.
type DocumentAIConfig struct {
	gdocai.Config `mapstructure:",squash"`
	DebugDir      string `mapstructure:"debug_dir"` // raw responses are dumped here as JSON when set
}

// OutputConfig contains output document settings
type OutputConfig struct {
	Format    string `mapstructure:"format"`
	Name      string `mapstructure:"name"`
	WorkDir   string `mapstructure:"work_dir"`
	Threshold int    `mapstructure:"threshold"`
	LossLevel int    `mapstructure:"loss_level"`
	KeepTemp  bool   `mapstructure:"keep_temp"`
}

// New returns a viper instance carrying the djvuscan defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("djvuscan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "djvuscan"))
	}

	setDefaults(v)

	v.SetEnvPrefix("DJVUSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration into a Config. An explicit configFile must exist;
// otherwise a missing djvuscan.yml falls back to defaults and environment.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("No config file found, using environment variables and defaults")
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Scanner defaults
	v.SetDefault("scanner.device", "")
	v.SetDefault("scanner.page_size", "a4")
	v.SetDefault("scanner.width_mm", 0)
	v.SetDefault("scanner.height_mm", 0)
	v.SetDefault("scanner.resolution", 300)
	v.SetDefault("scanner.deskew", true)

	// OCR defaults
	v.SetDefault("ocr.engine", EngineTesseract)
	v.SetDefault("ocr.language", "fra")
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.documentai.project_id", "")
	v.SetDefault("ocr.documentai.location", "eu")
	v.SetDefault("ocr.documentai.processor_id", "")
	v.SetDefault("ocr.documentai.credentials_file", "")
	v.SetDefault("ocr.documentai.debug_dir", "")

	// Output defaults
	v.SetDefault("output.format", FormatDjvu)
	v.SetDefault("output.name", "0")
	v.SetDefault("output.work_dir", ".")
	v.SetDefault("output.threshold", 70)
	v.SetDefault("output.loss_level", 100)
	v.SetDefault("output.keep_temp", false)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Scanner.Validate(); err != nil {
		return fmt.Errorf("scanner: %w", err)
	}
	if err := c.OCR.Validate(); err != nil {
		return fmt.Errorf("ocr: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// Validate validates scanner settings
func (sc *ScannerConfig) Validate() error {
	if sc.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive")
	}
	if sc.WidthMM < 0 || sc.HeightMM < 0 {
		return fmt.Errorf("width_mm and height_mm cannot be negative")
	}
	_, _, err := sc.Dimensions()
	return err
}

// Dimensions returns the scan area in millimeters.
func (sc *ScannerConfig) Dimensions() (float64, float64, error) {
	if sc.WidthMM > 0 && sc.HeightMM > 0 {
		return sc.WidthMM, sc.HeightMM, nil
	}
	size, err := LookupPageSize(sc.PageSize)
	if err != nil {
		return 0, 0, err
	}
	return size.WidthMM, size.HeightMM, nil
}

// Validate validates OCR settings
func (oc *OCRConfig) Validate() error {
	switch oc.Engine {
	case EngineTesseract, EngineGosseract:
	case EngineDocumentAI:
		d := oc.DocumentAI
		if d.ProjectID == "" || d.Location == "" || d.ProcessorID == "" {
			return fmt.Errorf("documentai engine requires project_id, location and processor_id")
		}
	default:
		return fmt.Errorf("engine must be one of %q, %q or %q, got %q",
			EngineTesseract, EngineGosseract, EngineDocumentAI, oc.Engine)
	}
	if oc.Language == "" {
		return fmt.Errorf("language cannot be empty")
	}
	return nil
}

// Validate validates output settings
func (oc *OutputConfig) Validate() error {
	if oc.Format != FormatDjvu && oc.Format != FormatPDF {
		return fmt.Errorf("format must be %q or %q, got %q", FormatDjvu, FormatPDF, oc.Format)
	}
	if oc.Name == "" || strings.ContainsRune(oc.Name, os.PathSeparator) {
		return fmt.Errorf("name must be a plain file name")
	}
	if oc.Threshold < 0 || oc.Threshold > 100 {
		return fmt.Errorf("threshold must be between 0 and 100")
	}
	if oc.LossLevel < 0 || oc.LossLevel > 200 {
		return fmt.Errorf("loss_level must be between 0 and 200")
	}
	return nil
}

// OutputPath returns the final document path inside the work directory.
func (oc *OutputConfig) OutputPath() string {
	return filepath.Join(oc.WorkDir, oc.Name+"."+oc.Format)
}

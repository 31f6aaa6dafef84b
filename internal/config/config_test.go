package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "a4", cfg.Scanner.PageSize)
	assert.Equal(t, 300, cfg.Scanner.Resolution)
	assert.True(t, cfg.Scanner.Deskew)
	assert.Equal(t, EngineTesseract, cfg.OCR.Engine)
	assert.Equal(t, "fra", cfg.OCR.Language)
	assert.Equal(t, FormatDjvu, cfg.Output.Format)
	assert.Equal(t, "0", cfg.Output.Name)
	assert.Equal(t, 70, cfg.Output.Threshold)
	assert.Equal(t, 100, cfg.Output.LossLevel)
	assert.Equal(t, filepath.Join(".", "0.djvu"), cfg.Output.OutputPath())

	w, h, err := cfg.Scanner.Dimensions()
	require.NoError(t, err)
	assert.Equal(t, 210.0, w)
	assert.Equal(t, 297.0, h)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
scanner:
  device: "brother5:bus2;dev1"
  page_size: a5-landscape
ocr:
  engine: documentai
  documentai:
    project_id: my-project
    processor_id: abc123
output:
  format: pdf
  name: invoices
`), 0o644))

	t.Setenv("DJVUSCAN_OCR_LANGUAGE", "eng")
	t.Setenv("DJVUSCAN_OUTPUT_KEEP_TEMP", "true")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "brother5:bus2;dev1", cfg.Scanner.Device)
	assert.Equal(t, EngineDocumentAI, cfg.OCR.Engine)
	assert.Equal(t, "my-project", cfg.OCR.DocumentAI.ProjectID)
	assert.Equal(t, "eu", cfg.OCR.DocumentAI.Location)
	assert.Equal(t, "abc123", cfg.OCR.DocumentAI.ProcessorID)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.True(t, cfg.Output.KeepTemp)
	assert.Equal(t, FormatPDF, cfg.Output.Format)

	w, h, err := cfg.Scanner.Dimensions()
	require.NoError(t, err)
	assert.Equal(t, 210.0, w)
	assert.Equal(t, 148.0, h)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "error reading config file")

	t.Setenv("DJVUSCAN_OUTPUT_FORMAT", "tiff")
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	_, err = Load(New(), "")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Scanner: ScannerConfig{PageSize: "a4", Resolution: 300},
			OCR:     OCRConfig{Engine: EngineTesseract, Language: "fra"},
			Output:  OutputConfig{Format: FormatDjvu, Name: "0", Threshold: 70, LossLevel: 100},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"custom dimensions", func(c *Config) { c.Scanner.PageSize = ""; c.Scanner.WidthMM, c.Scanner.HeightMM = 90, 60 }, ""},
		{"zero resolution", func(c *Config) { c.Scanner.Resolution = 0 }, "resolution must be positive"},
		{"negative width", func(c *Config) { c.Scanner.WidthMM = -1 }, "cannot be negative"},
		{"unknown page size", func(c *Config) { c.Scanner.PageSize = "letter" }, `unknown page size "letter"`},
		{"unknown engine", func(c *Config) { c.OCR.Engine = "easyocr" }, "engine must be one of"},
		{"incomplete documentai", func(c *Config) { c.OCR.Engine = EngineDocumentAI }, "requires project_id"},
		{"empty language", func(c *Config) { c.OCR.Language = "" }, "language cannot be empty"},
		{"unknown format", func(c *Config) { c.Output.Format = "tiff" }, "format must be"},
		{"name with directory", func(c *Config) { c.Output.Name = filepath.Join("a", "b") }, "plain file name"},
		{"threshold too high", func(c *Config) { c.Output.Threshold = 101 }, "threshold must be between"},
		{"loss level too high", func(c *Config) { c.Output.LossLevel = 201 }, "loss_level must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLookupPageSize(t *testing.T) {
	size, err := LookupPageSize("A5")
	require.NoError(t, err)
	assert.Equal(t, PageSize{Name: "a5", WidthMM: 148, HeightMM: 210}, size)

	size, err = LookupPageSize("credit-card-landscape")
	require.NoError(t, err)
	assert.Equal(t, PageSize{Name: "credit-card-landscape", WidthMM: 55, HeightMM: 86}, size)

	_, err = LookupPageSize("-landscape")
	assert.Error(t, err)
}

func TestPageSizes(t *testing.T) {
	sizes := PageSizes()
	require.Len(t, sizes, 14)
	assert.Equal(t, "a4", sizes[0].Name)
	assert.Equal(t, "a4-landscape", sizes[1].Name)
	assert.Equal(t, "care-certificate", sizes[10].Name)
	assert.Equal(t, "credit-card-landscape", sizes[13].Name)
}

package config

import (
	"errors"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/adrianliechti/payroll/pkg/batch"
	"github.com/adrianliechti/payroll/pkg/extract"
	"github.com/adrianliechti/payroll/pkg/number"
)

type localeConfig struct {
	Language string `yaml:"language"`

	Thousands string `yaml:"thousands"`
	Decimal   string `yaml:"decimal"`
}

type extractionConfig struct {
	Strict bool `yaml:"strict"`
	Depth  int  `yaml:"depth"`
}

type batchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
	Abort       bool          `yaml:"abort"`
}

func (cfg *Config) registerProcessing(f *configFile) error {
	if f.Locale != nil {
		format, err := createFormat(*f.Locale)

		if err != nil {
			return err
		}

		cfg.format = format
	}

	if f.Extraction != nil {
		if f.Extraction.Depth < 0 {
			return errors.New("invalid extraction depth")
		}

		cfg.extraction = *f.Extraction
	}

	if f.Batch != nil {
		if f.Batch.Timeout < 0 || f.Batch.Concurrency < 0 {
			return errors.New("invalid batch settings")
		}

		cfg.batch = *f.Batch
	}

	return nil
}

func createFormat(cfg localeConfig) (number.Format, error) {
	format := number.Default

	if cfg.Language != "" {
		f, err := number.ParseLocale(cfg.Language)

		if err != nil {
			return format, err
		}

		format = f
	}

	if cfg.Thousands != "" {
		format.Thousands = cfg.Thousands
	}

	if cfg.Decimal != "" {
		format.Decimal = cfg.Decimal
	}

	if err := format.Validate(); err != nil {
		return format, err
	}

	return format, nil
}

// Format returns the configured numeric separator convention.
func (cfg *Config) Format() number.Format {
	if cfg.format == (number.Format{}) {
		return number.Default
	}

	return cfg.format
}

func (cfg *Config) SetFormat(f number.Format) {
	cfg.format = f
}

// Supported reports whether a file name has an accepted upload extension.
func (cfg *Config) Supported(name string) bool {
	ext := strings.ToLower(path.Ext(name))

	if ext == "" {
		return false
	}

	return slices.Contains(cfg.Extensions, ext)
}

func (cfg *Config) Extractor(logger *slog.Logger) *extract.Extractor {
	options := []extract.Option{
		extract.WithFormat(cfg.Format()),
		extract.WithStrictNumbers(cfg.extraction.Strict),
	}

	if cfg.extraction.Depth > 0 {
		options = append(options, extract.WithMaxDepth(cfg.extraction.Depth))
	}

	if logger != nil {
		options = append(options, extract.WithObserver(extract.LogObserver(logger)))
	}

	return extract.New(options...)
}

// Processor builds a batch processor for the given analyzer and model.
// Empty ids select the defaults.
func (cfg *Config) Processor(analyzerID, model string) (*batch.Processor, error) {
	a, err := cfg.Analyzer(analyzerID)

	if err != nil {
		return nil, err
	}

	model, err = cfg.Model(model)

	if err != nil {
		return nil, err
	}

	logger := slog.Default()

	options := []batch.Option{
		batch.WithLogger(logger),
		batch.WithAbortOnError(cfg.batch.Abort),
	}

	if cfg.batch.Timeout > 0 {
		options = append(options, batch.WithTimeout(cfg.batch.Timeout))
	}

	if cfg.batch.Concurrency > 0 {
		options = append(options, batch.WithConcurrency(cfg.batch.Concurrency))
	}

	return batch.New(a, cfg.Extractor(logger), model, options...)
}

func normalizeExtensions(values []string) []string {
	var result []string

	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))

		if v == "" {
			continue
		}

		if !strings.HasPrefix(v, ".") {
			v = "." + v
		}

		if !slices.Contains(result, v) {
			result = append(result, v)
		}
	}

	return result
}

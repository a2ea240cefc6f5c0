package config

import (
	"bytes"
	"os"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/auth"
	"github.com/adrianliechti/payroll/pkg/number"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Authorizers []auth.Provider

	// Extensions lists the file extensions accepted for upload.
	Extensions []string

	analyzers map[string]analyzer.Provider

	models []string

	format     number.Format
	extraction extractionConfig
	batch      batchConfig
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":8080",

		Extensions: []string{".pdf", ".jpg", ".jpeg", ".png"},

		format: number.Default,
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if len(file.Extensions) > 0 {
		c.Extensions = normalizeExtensions(file.Extensions)
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerAnalyzers(file); err != nil {
		return nil, err
	}

	if err := c.registerModels(file); err != nil {
		return nil, err
	}

	if err := c.registerProcessing(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Analyzers yaml.Node `yaml:"analyzers"`

	Models     []string `yaml:"models"`
	Extensions []string `yaml:"extensions"`

	Locale     *localeConfig     `yaml:"locale"`
	Extraction *extractionConfig `yaml:"extraction"`
	Batch      *batchConfig      `yaml:"batch"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil || *limit <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}

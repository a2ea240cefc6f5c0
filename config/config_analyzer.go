package config

import (
	"errors"
	"strings"
	"time"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/analyzer/azure"
	"github.com/adrianliechti/payroll/pkg/analyzer/replay"
	"github.com/adrianliechti/payroll/pkg/limiter"
	"github.com/adrianliechti/payroll/pkg/otel"
	"github.com/adrianliechti/payroll/pkg/router/roundrobin"

	"golang.org/x/time/rate"
)

// RegisterAnalyzer adds an analyzer under id. The first registered analyzer
// also serves requests that do not name one.
func (cfg *Config) RegisterAnalyzer(id string, p analyzer.Provider) {
	if cfg.analyzers == nil {
		cfg.analyzers = make(map[string]analyzer.Provider)
	}

	if _, ok := cfg.analyzers[""]; !ok {
		cfg.analyzers[""] = p
	}

	cfg.analyzers[id] = p
}

func (cfg *Config) Analyzer(id string) (analyzer.Provider, error) {
	if cfg.analyzers != nil {
		if p, ok := cfg.analyzers[id]; ok {
			return p, nil
		}
	}

	return nil, errors.New("analyzer not found: " + id)
}

type analyzerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Version  string        `yaml:"version"`
	Interval time.Duration `yaml:"interval"`

	Proxy *proxyConfig `yaml:"proxy"`

	Limit *int `yaml:"limit"`

	Analyzers []string `yaml:"analyzers"`
}

type analyzerContext struct {
	Limiter *rate.Limiter

	Analyzers []analyzer.Provider
}

func (cfg *Config) registerAnalyzers(f *configFile) error {
	if f.Analyzers.IsZero() {
		return nil
	}

	var configs map[string]analyzerConfig

	if err := f.Analyzers.Decode(&configs); err != nil {
		return err
	}

	for i := 0; i+1 < len(f.Analyzers.Content); i += 2 {
		id := f.Analyzers.Content[i].Value

		config, ok := configs[id]

		if !ok {
			continue
		}

		context := analyzerContext{
			Limiter: createLimiter(config.Limit),
		}

		for _, ref := range config.Analyzers {
			a, err := cfg.Analyzer(ref)

			if err != nil || ref == "" || ref == id {
				return errors.New("analyzer " + id + ": invalid reference " + ref)
			}

			context.Analyzers = append(context.Analyzers, a)
		}

		a, err := createAnalyzer(config, context)

		if err != nil {
			return errors.Join(errors.New("analyzer "+id), err)
		}

		if _, ok := a.(limiter.Analyzer); !ok {
			a = limiter.NewAnalyzer(context.Limiter, a)
		}

		if _, ok := a.(otel.Analyzer); !ok {
			a = otel.NewAnalyzer(id, a)
		}

		cfg.RegisterAnalyzer(id, a)
	}

	return nil
}

func createAnalyzer(cfg analyzerConfig, context analyzerContext) (analyzer.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "azure":
		return azureAnalyzer(cfg)

	case "replay":
		return replayAnalyzer(cfg)

	case "roundrobin":
		return roundrobinAnalyzer(cfg, context)

	default:
		return nil, errors.New("invalid analyzer type: " + cfg.Type)
	}
}

func azureAnalyzer(cfg analyzerConfig) (analyzer.Provider, error) {
	var options []azure.Option

	if cfg.Token != "" {
		options = append(options, azure.WithToken(cfg.Token))
	}

	if cfg.Version != "" {
		options = append(options, azure.WithAPIVersion(cfg.Version))
	}

	if cfg.Interval > 0 {
		options = append(options, azure.WithPollInterval(cfg.Interval))
	}

	if cfg.Proxy != nil {
		client, err := cfg.Proxy.proxyClient()

		if err != nil {
			return nil, err
		}

		options = append(options, azure.WithClient(client))
	}

	return azure.New(cfg.URL, options...)
}

func replayAnalyzer(cfg analyzerConfig) (analyzer.Provider, error) {
	return replay.New()
}

// roundrobinAnalyzer balances over analyzers declared earlier in the file.
func roundrobinAnalyzer(cfg analyzerConfig, context analyzerContext) (analyzer.Provider, error) {
	return roundrobin.NewAnalyzer(context.Analyzers)
}

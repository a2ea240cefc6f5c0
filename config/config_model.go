package config

import (
	"errors"
	"slices"
	"strings"
)

func (cfg *Config) RegisterModel(id string) {
	if id == "" || slices.Contains(cfg.models, id) {
		return
	}

	cfg.models = append(cfg.models, id)
}

// Models returns the configured model ids. The first one is the default.
func (cfg *Config) Models() []string {
	return slices.Clone(cfg.models)
}

// Model resolves a requested model id. Without configured models any
// non-empty id is passed through.
func (cfg *Config) Model(id string) (string, error) {
	id = strings.TrimSpace(id)

	if id == "" {
		if len(cfg.models) == 0 {
			return "", errors.New("missing model")
		}

		return cfg.models[0], nil
	}

	if len(cfg.models) > 0 && !slices.Contains(cfg.models, id) {
		return "", errors.New("model not found: " + id)
	}

	return id, nil
}

func (cfg *Config) registerModels(f *configFile) error {
	for _, m := range f.Models {
		m = strings.TrimSpace(m)

		if m == "" {
			return errors.New("invalid model: empty id")
		}

		cfg.RegisterModel(m)
	}

	return nil
}

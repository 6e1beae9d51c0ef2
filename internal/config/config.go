package config

import (
	"github.com/caarlos0/env/v11"

	"github.com/shopwatchhq/shopwatch/internal/apperr"
)

// New reads configuration from environment variables and unmarshals them into
// a struct of type T. A missing required variable is a startup-fatal
// configuration error.
func New[T any]() (T, error) {
	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, apperr.ConfigurationErr.WrapParent(err)
	}

	return cfg, nil
}

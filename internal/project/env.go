package project

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides are read from TAGCOPY_* variables and win over the manifest.
type EnvOverrides struct {
	Target   string `env:"TAGCOPY_TARGET"`
	Jobs     int    `env:"TAGCOPY_JOBS"`
	CacheDir string `env:"TAGCOPY_CACHE_DIR"`
	NoColor  bool   `env:"TAGCOPY_NO_COLOR"`
}

// LoadEnv parses overrides from the process environment.
func LoadEnv() (EnvOverrides, error) {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return EnvOverrides{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// LoadEnvFrom parses overrides from an explicit variable map.
func LoadEnvFrom(vars map[string]string) (EnvOverrides, error) {
	var o EnvOverrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: vars}); err != nil {
		return EnvOverrides{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// Apply folds the overrides into cfg and revalidates it.
func (o EnvOverrides) Apply(cfg *Config) error {
	if o.Target != "" {
		cfg.Target.Name = o.Target
		cfg.Target.Purecap = nil
	}
	if o.Jobs != 0 {
		cfg.Check.Jobs = o.Jobs
	}
	if cfg.Project.Name == "" {
		// без манифеста валидировать нечего, кроме таргета
		probe := *cfg
		probe.Project.Name = "env"
		return probe.Validate()
	}
	return cfg.Validate()
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the process-level overrides read from the environment. They are
// never written back to the config files.
type Env struct {
	Debug           bool   `env:"RELAYDESK_DEBUG"`
	ConfigPath      string `env:"RELAYDESK_CONFIG"`
	LocalConfigPath string `env:"RELAYDESK_LOCAL_CONFIG"`
	UpdateURL       string `env:"RELAYDESK_UPDATE_URL"`
	// Detached keeps remote sessions out of the active-session registry.
	Detached bool `env:"RELAYDESK_DETACHED"`
}

// ParseEnv reads the overrides from the environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("error getting env configs: %w", err)
	}
	return e, nil
}

// UpdateURLOr returns the update URL override, or def when unset.
func (e Env) UpdateURLOr(def string) string {
	if e.UpdateURL != "" {
		return e.UpdateURL
	}
	return def
}

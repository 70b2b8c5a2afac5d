package config

import "time"

// Config holds distill configuration.
// Stored at: {output_root}/config.yaml
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Roles     RolesCfg               `mapstructure:"roles" yaml:"roles"`
	Retry     RetryCfg               `mapstructure:"retry" yaml:"retry"`
	Output    OutputCfg              `mapstructure:"output" yaml:"output"`
}

// ProviderCfg configures one text-generation backend.
type ProviderCfg struct {
	Type       string  `mapstructure:"type" yaml:"type"`                 // "anthropic", "openai", "gemini"
	BaseURL    string  `mapstructure:"base_url" yaml:"base_url"`         // Optional override
	Model      string  `mapstructure:"model" yaml:"model"`               // Model name
	APIKey     string  `mapstructure:"api_key" yaml:"api_key"`           // API key (supports ${ENV_VAR} syntax)
	AuthStyle  string  `mapstructure:"auth_style" yaml:"auth_style"`     // "native" (default) or "bearer", gemini only
	RateLimit  float64 `mapstructure:"rate_limit" yaml:"rate_limit"`     // Requests per second
	TimeoutSec int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
}

// RolesCfg assigns a provider to each remote pipeline stage.
type RolesCfg struct {
	Summarize   string `mapstructure:"summarize" yaml:"summarize"`
	Consolidate string `mapstructure:"consolidate" yaml:"consolidate"`
	Materialize string `mapstructure:"materialize" yaml:"materialize"`
}

// RetryCfg holds shared retry/backoff parameters.
type RetryCfg struct {
	MaxRetries     int `mapstructure:"max_retries" yaml:"max_retries"`
	InitialDelayMs int `mapstructure:"initial_delay_ms" yaml:"initial_delay_ms"`
}

// InitialDelay returns the configured initial backoff as a duration.
func (r RetryCfg) InitialDelay() time.Duration {
	return time.Duration(r.InitialDelayMs) * time.Millisecond
}

// OutputCfg controls where run artifacts land.
type OutputCfg struct {
	Root string `mapstructure:"root" yaml:"root"` // Output root (default: ~/.distill)
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"anthropic": {
				Type:      "anthropic",
				Model:     "claude-sonnet-4-20250514",
				APIKey:    "${ANTHROPIC_API_KEY}",
				RateLimit: 2.0,
				Enabled:   true,
			},
			"openai": {
				Type:      "openai",
				Model:     "gpt-4o",
				APIKey:    "${OPENAI_API_KEY}",
				RateLimit: 2.0,
				Enabled:   true,
			},
			"gemini": {
				Type:      "gemini",
				Model:     "gemini-2.0-flash",
				APIKey:    "${GEMINI_API_KEY}",
				AuthStyle: "native",
				RateLimit: 2.0,
				Enabled:   true,
			},
		},
		Roles: RolesCfg{
			Summarize:   "openai",
			Consolidate: "anthropic",
			Materialize: "gemini",
		},
		Retry: RetryCfg{
			MaxRetries:     3,
			InitialDelayMs: 1000,
		},
		Output: OutputCfg{},
	}
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// RoleAssignments returns the stage-role to provider-name map.
func (c *Config) RoleAssignments() map[string]string {
	return map[string]string{
		"summarize":   c.Roles.Summarize,
		"consolidate": c.Roles.Consolidate,
		"materialize": c.Roles.Materialize,
	}
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/studyforge/distill/internal/config"
	"github.com/studyforge/distill/internal/providers"
)

// buildRegistry constructs provider clients for every enabled backend and
// assigns the configured stage roles. Called once at startup; components
// receive the registry explicitly and never read config themselves.
func buildRegistry(cfg *config.Config, logger *slog.Logger) (*providers.Registry, error) {
	registry := providers.NewRegistry()
	registry.SetLogger(logger)

	for name, pc := range cfg.EnabledProviders() {
		clientCfg, err := cfg.ProviderClientConfig(name)
		if err != nil {
			return nil, err
		}

		client, err := newClient(pc, clientCfg)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		if pc.RateLimit > 0 {
			client = providers.NewRateLimited(client, pc.RateLimit)
		}
		registry.Register(name, client)
	}

	for role, providerName := range cfg.RoleAssignments() {
		if providerName == "" {
			return nil, fmt.Errorf("no provider assigned to role: %s", role)
		}
		if err := registry.AssignRole(role, providerName); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// refreshRegistry reconciles the registry with an updated config.
// Providers whose entries are unchanged keep their clients, so token
// bucket state survives the reload; changed or newly enabled ones are
// rebuilt, and removed or disabled ones are unregistered. Role
// assignments are reapplied. Returns the config to diff against on the
// next change.
func refreshRegistry(registry *providers.Registry, prev, updated *config.Config, logger *slog.Logger) *config.Config {
	enabled := updated.EnabledProviders()

	for _, name := range registry.List() {
		if _, ok := enabled[name]; !ok {
			registry.Unregister(name)
		}
	}

	for name, pc := range enabled {
		if prevCfg, ok := prev.Providers[name]; ok && prevCfg == pc {
			if _, err := registry.Get(name); err == nil {
				continue
			}
		}

		clientCfg, err := updated.ProviderClientConfig(name)
		if err != nil {
			logger.Warn("skipping provider after config change", "name", name, "error", err)
			continue
		}
		client, err := newClient(pc, clientCfg)
		if err != nil {
			logger.Warn("skipping provider after config change", "name", name, "error", err)
			continue
		}
		if pc.RateLimit > 0 {
			client = providers.NewRateLimited(client, pc.RateLimit)
		}
		registry.Register(name, client)
	}

	for role, providerName := range updated.RoleAssignments() {
		if err := registry.AssignRole(role, providerName); err != nil {
			logger.Warn("failed to reassign role", "role", role, "error", err)
		}
	}

	return updated
}

// newClient instantiates one provider client from its config entry.
func newClient(pc config.ProviderCfg, clientCfg providers.Config) (providers.Provider, error) {
	switch pc.Type {
	case "anthropic":
		return providers.NewAnthropicClient(clientCfg), nil
	case "openai":
		return providers.NewOpenAIClient(clientCfg), nil
	case "gemini":
		if pc.AuthStyle == "bearer" {
			return providers.NewGeminiClient(clientCfg, providers.WithBearerAuth()), nil
		}
		return providers.NewGeminiClient(clientCfg), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", pc.Type)
	}
}

package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/studyforge/distill/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// registryTestConfig builds a config with the given provider models, all
// roles assigned to roleProvider.
func registryTestConfig(models map[string]string, roleProvider string) *config.Config {
	cfgs := make(map[string]config.ProviderCfg, len(models))
	for name, model := range models {
		cfgs[name] = config.ProviderCfg{
			Type:      "anthropic",
			Model:     model,
			APIKey:    "test-key",
			RateLimit: 1,
			Enabled:   true,
		}
	}
	return &config.Config{
		Providers: cfgs,
		Roles: config.RolesCfg{
			Summarize:   roleProvider,
			Consolidate: roleProvider,
			Materialize: roleProvider,
		},
		Retry: config.RetryCfg{MaxRetries: 1, InitialDelayMs: 1},
	}
}

func TestBuildRegistry(t *testing.T) {
	cfg := registryTestConfig(map[string]string{"alpha": "model-a", "beta": "model-b"}, "alpha")

	registry, err := buildRegistry(cfg, quietLogger())
	if err != nil {
		t.Fatalf("buildRegistry() error = %v", err)
	}

	names := registry.List()
	if len(names) != 2 {
		t.Errorf("List() = %v, want both providers", names)
	}
	client, err := registry.ForRole("summarize")
	if err != nil {
		t.Fatalf("ForRole() error = %v", err)
	}
	if client.Model() != "model-a" {
		t.Errorf("role client model = %q, want model-a", client.Model())
	}
}

func TestBuildRegistryUnassignedRole(t *testing.T) {
	cfg := registryTestConfig(map[string]string{"alpha": "model-a"}, "alpha")
	cfg.Roles.Materialize = ""

	if _, err := buildRegistry(cfg, quietLogger()); err == nil {
		t.Error("expected error for unassigned role")
	}
}

func TestRefreshRegistryKeepsUnchangedClients(t *testing.T) {
	prev := registryTestConfig(map[string]string{"alpha": "model-a", "beta": "model-b"}, "alpha")
	registry, err := buildRegistry(prev, quietLogger())
	if err != nil {
		t.Fatalf("buildRegistry() error = %v", err)
	}

	alphaBefore, _ := registry.Get("alpha")
	betaBefore, _ := registry.Get("beta")

	updated := registryTestConfig(map[string]string{"alpha": "model-a", "beta": "model-b2"}, "alpha")
	refreshRegistry(registry, prev, updated, quietLogger())

	alphaAfter, err := registry.Get("alpha")
	if err != nil {
		t.Fatalf("Get(alpha) error = %v", err)
	}
	if alphaAfter != alphaBefore {
		t.Error("unchanged provider should keep its client (and limiter state)")
	}

	betaAfter, err := registry.Get("beta")
	if err != nil {
		t.Fatalf("Get(beta) error = %v", err)
	}
	if betaAfter == betaBefore {
		t.Error("changed provider should get a rebuilt client")
	}
	if betaAfter.Model() != "model-b2" {
		t.Errorf("beta model = %q, want model-b2", betaAfter.Model())
	}
}

func TestRefreshRegistryUnregistersRemovedProviders(t *testing.T) {
	prev := registryTestConfig(map[string]string{"alpha": "model-a", "beta": "model-b"}, "alpha")
	registry, err := buildRegistry(prev, quietLogger())
	if err != nil {
		t.Fatalf("buildRegistry() error = %v", err)
	}

	t.Run("removed from config", func(t *testing.T) {
		updated := registryTestConfig(map[string]string{"alpha": "model-a"}, "alpha")
		refreshRegistry(registry, prev, updated, quietLogger())

		if _, err := registry.Get("beta"); err == nil {
			t.Error("removed provider should be unregistered")
		}
		if names := registry.List(); len(names) != 1 || names[0] != "alpha" {
			t.Errorf("List() = %v, want only alpha", names)
		}
		prev = updated
	})

	t.Run("disabled in config", func(t *testing.T) {
		updated := registryTestConfig(map[string]string{"alpha": "model-a", "gamma": "model-g"}, "alpha")
		refreshRegistry(registry, prev, updated, quietLogger())
		if _, err := registry.Get("gamma"); err != nil {
			t.Fatalf("Get(gamma) error = %v", err)
		}

		disabled := registryTestConfig(map[string]string{"alpha": "model-a", "gamma": "model-g"}, "alpha")
		pc := disabled.Providers["gamma"]
		pc.Enabled = false
		disabled.Providers["gamma"] = pc
		refreshRegistry(registry, updated, disabled, quietLogger())

		if _, err := registry.Get("gamma"); err == nil {
			t.Error("disabled provider should be unregistered")
		}
	})
}

func TestRefreshRegistryReassignsRoles(t *testing.T) {
	prev := registryTestConfig(map[string]string{"alpha": "model-a", "beta": "model-b"}, "alpha")
	registry, err := buildRegistry(prev, quietLogger())
	if err != nil {
		t.Fatalf("buildRegistry() error = %v", err)
	}

	updated := registryTestConfig(map[string]string{"alpha": "model-a", "beta": "model-b"}, "beta")
	refreshRegistry(registry, prev, updated, quietLogger())

	client, err := registry.ForRole("consolidate")
	if err != nil {
		t.Fatalf("ForRole() error = %v", err)
	}
	if client.Model() != "model-b" {
		t.Errorf("role client model = %q, want model-b", client.Model())
	}
}

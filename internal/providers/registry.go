package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds provider clients and the role assignments that map
// pipeline stages to a concrete client. It is built once from config at
// startup; stage code never branches on backend names.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Provider
	roles   map[string]string // role -> provider name
	logger  *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Provider),
		roles:   make(map[string]string),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a provider client by name.
func (r *Registry) Register(name string, client Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	if r.logger != nil {
		r.logger.Info("registered provider", "name", name, "model", client.Model())
	}
}

// Unregister removes a provider client by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
	if r.logger != nil {
		r.logger.Info("unregistered provider", "name", name)
	}
}

// Get returns a provider client by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return client, nil
}

// AssignRole maps a pipeline role (e.g., "summarize") to a provider name.
func (r *Registry) AssignRole(role, providerName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[providerName]; !ok {
		return fmt.Errorf("cannot assign role %q: provider not found: %s", role, providerName)
	}
	r.roles[role] = providerName
	return nil
}

// ForRole returns the provider client assigned to a role.
func (r *Registry) ForRole(role string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.roles[role]
	if !ok {
		return nil, fmt.Errorf("no provider assigned to role: %s", role)
	}
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("role %q assigned to unknown provider: %s", role, name)
	}
	return client, nil
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Roles returns a copy of the role assignments.
func (r *Registry) Roles() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roles := make(map[string]string, len(r.roles))
	for role, name := range r.roles {
		roles[role] = name
	}
	return roles
}
